package app

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/riandyrn/otelchi"

	"github.com/GovindharajM27/ticketbookingapp/api"
)

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(app.requestLogger)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)
	r.Use(app.ensureGuestUserSession)

	r.Get("/health", app.GetHealth)

	r.Route("/movies", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			params := api.GetMoviesParams{}

			if page := r.URL.Query().Get("page"); page != "" {
				if pageNum, err := strconv.Atoi(page); err == nil {
					params.Page = &pageNum
				}
			}

			if pageSize := r.URL.Query().Get("pageSize"); pageSize != "" {
				if pageSizeNum, err := strconv.Atoi(pageSize); err == nil {
					params.PageSize = &pageSizeNum
				}
			}

			if term := r.URL.Query().Get("term"); term != "" {
				params.Term = &term
			}

			app.GetMovies(w, r, params)
		})

		r.Route("/{movieId}", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				app.GetMovieById(w, r, chi.URLParam(r, "movieId"))
			})

			r.Get("/seats", func(w http.ResponseWriter, r *http.Request) {
				app.GetSeatMapByMovie(w, r, chi.URLParam(r, "movieId"))
			})

			r.Route("/selection", func(r chi.Router) {
				r.Get("/", func(w http.ResponseWriter, r *http.Request) {
					app.GetSelectionHandler(w, r, chi.URLParam(r, "movieId"))
				})
				r.Post("/seats", func(w http.ResponseWriter, r *http.Request) {
					app.ToggleSeatHandler(w, r, chi.URLParam(r, "movieId"))
				})
				r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
					app.DeleteSelectionHandler(w, r, chi.URLParam(r, "movieId"))
				})
			})

			r.With(app.requireAuthentication).Post("/checkout", func(w http.ResponseWriter, r *http.Request) {
				app.CheckoutHandler(w, r, chi.URLParam(r, "movieId"))
			})
		})
	})

	r.Post("/users", app.RegisterUser)
	r.Post("/login", app.Login)
	r.Post("/logout", app.Logout)

	r.With(app.requireAuthentication).Get("/users/me", app.GetCurrentUser)

	r.With(app.requireAuthentication).Route("/users/me/bookings", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			params := api.GetBookingsOfUserParams{}

			if page := r.URL.Query().Get("page"); page != "" {
				if pageNum, err := strconv.Atoi(page); err == nil {
					params.Page = &pageNum
				}
			}

			if pageSize := r.URL.Query().Get("pageSize"); pageSize != "" {
				if pageSizeNum, err := strconv.Atoi(pageSize); err == nil {
					params.PageSize = &pageSizeNum
				}
			}

			app.GetBookingsOfUserHandler(w, r, params)
		})

		r.Get("/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
			bookingId, err := uuid.Parse(chi.URLParam(r, "bookingId"))
			if err != nil {
				app.badRequestResponse(w, r, fmt.Errorf("invalid booking ID"))
				return
			}

			app.GetUserBookingById(w, r, bookingId)
		})
	})

	return r
}
