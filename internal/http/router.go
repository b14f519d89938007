package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Accounts *AccountHandler
	Events   *EventHandler
	System   *SystemHandler
	// RequireAuth guards event mutations. Without it every mutation is rejected.
	RequireAuth func(http.Handler) http.Handler
	Metrics     http.Handler
	Middleware  []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	fallback := newResponder(nil)

	authenticated := func(h http.HandlerFunc) http.Handler {
		if cfg.RequireAuth == nil {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fallback.writeError(r.Context(), w, http.StatusUnauthorized, msgMissingToken)
			})
		}
		return cfg.RequireAuth(h)
	}

	if cfg.Accounts != nil {
		mux.HandleFunc("/users/signup", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Accounts.Signup(w, r)
		})
		mux.HandleFunc("/users/login", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Accounts.Login(w, r)
		})
	}

	if cfg.Events != nil {
		create := authenticated(cfg.Events.Create)
		update := authenticated(cfg.Events.Update)
		remove := authenticated(cfg.Events.Delete)

		mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Events.List(w, r)
			case http.MethodPost:
				create.ServeHTTP(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/events/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/events/")
			if id == "" || strings.Contains(id, "/") {
				fallback.writeError(r.Context(), w, http.StatusNotFound, msgNotFound)
				return
			}
			ctx := ContextWithEventID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodGet:
				cfg.Events.Get(w, r)
			case http.MethodPut:
				update.ServeHTTP(w, r)
			case http.MethodDelete:
				remove.ServeHTTP(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.System != nil {
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.System.Health(w, r)
		})
	}

	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics)
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" || cfg.System == nil {
			fallback.writeError(r.Context(), w, http.StatusNotFound, msgNotFound)
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		cfg.System.Index(w, r)
	})

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusMethodNotAllowed)
	_, _ = w.Write([]byte(`{"success":false,"message":"Method Not Allowed"}` + "\n"))
}
