// Package http provides HTTP handlers and middleware for the event board API.
//
// The router exposes the following endpoints:
//   - POST /users/signup: registers an account. Body: {"email","password","name"}.
//     Response 201: {"success","message","user":{"id","email","name","createdAt"},
//     "token","expiresAt"}.
//   - POST /users/login: exchanges credentials for a token. Same response shape with 200.
//   - GET /events, GET /events/{id}: public reads exchanging the `eventDTO` payload
//     defined in event_handler.go.
//   - POST /events, PUT /events/{id}, DELETE /events/{id}: mutations guarded by
//     RequireAuth. Only the owner of an event may update or delete it. PUT applies
//     only the members present in the body.
//   - GET /healthz pings the store, GET /metrics serves Prometheus metrics and GET /
//     describes the API.
//
// Every response body carries the envelope {"success","message"}; validation
// failures add "errors" with one message per violated rule.
package http
