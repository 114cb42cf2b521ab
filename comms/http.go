package comms

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/CodedInternet/rclink/log"
	"github.com/CodedInternet/rclink/onboard"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

// StateSource provides the live controller state.
type StateSource interface {
	Snapshot() onboard.Snapshot
	Subscribe() (<-chan onboard.Snapshot, func())
}

// SessionSource provides the connection journal.
type SessionSource interface {
	Sessions(limit int) ([]onboard.Session, error)
}

// API is the read-only HTTP monitor of the controller.
type API struct {
	State    StateSource
	Sessions SessionSource // nil when the journal is disabled
	Secret   []byte        // empty disables authentication
	Issuer   string
}

func (a *API) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer) // make sure this is last

	r.Group(func(r chi.Router) {
		if len(a.Secret) > 0 {
			r.Use(ValidateJWT(a.Secret))
		} else {
			log.Info.Println("monitor authentication disabled")
		}

		r.Route("/api", func(r chi.Router) {
			r.Get("/state", a.getState)
			r.Get("/sessions", a.getSessions)
			if len(a.Secret) > 0 {
				r.Get("/refresh_token", a.refreshToken)
			}
		})

		r.Get("/ws/state", a.streamState)
	})

	return r
}

// ListenAndServe serves the API until ctx is done.
func (a *API) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: a.Router()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info.Printf("monitor listening on %s", addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *API) getState(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, a.State.Snapshot())
}

func (a *API) getSessions(w http.ResponseWriter, r *http.Request) {
	if a.Sessions == nil {
		render.Render(w, r, ErrNotFound)
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		var err error
		if limit, err = strconv.Atoi(s); err != nil || limit < 0 {
			render.Render(w, r, ErrInvalidRequest(err))
			return
		}
	}

	sessions, err := a.Sessions.Sessions(limit)
	if err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
	render.JSON(w, r, sessions)
}
