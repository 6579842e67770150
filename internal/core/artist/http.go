// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/artverify/internal/platform/request"
	"github.com/taibuivan/artverify/internal/platform/respond"
)

// Handler implements the HTTP layer for artists, artworks and the
// verification dashboard. It translates web requests into [Service] calls.
type Handler struct {
	service *Service
}

// NewHandler constructs a new artist [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the artist domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// # Artists
	router.Route("/artists", func(artistRoute chi.Router) {
		artistRoute.Get("/", handler.listArtists)
		artistRoute.Post("/", handler.createArtist)
		artistRoute.Get("/by-name/{name}", handler.getArtistByName)
		artistRoute.Get("/{id}", handler.getArtist)
		artistRoute.Get("/{id}/artworks", handler.listArtworksByArtist)
		artistRoute.Put("/{id}/verification", handler.setVerification)
	})

	// # Artworks
	router.Route("/artworks", func(artworkRoute chi.Router) {
		artworkRoute.Get("/", handler.listArtworks)
		artworkRoute.Post("/", handler.addArtwork)
		artworkRoute.Post("/{id}/approve", handler.approveArtwork)
	})

	// # Dashboard
	router.Get("/verification/stats", handler.getVerificationStats)

	return router
}

// # Artist Handlers

func (handler *Handler) listArtists(writer http.ResponseWriter, request *http.Request) {
	artists, err := handler.service.ListArtists(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, artists)
}

func (handler *Handler) getArtist(writer http.ResponseWriter, request *http.Request) {
	artistID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	artist, err := handler.service.GetArtist(request.Context(), artistID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, artist)
}

func (handler *Handler) getArtistByName(writer http.ResponseWriter, request *http.Request) {
	name, err := requestutil.Param(request, "name")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	artist, err := handler.service.GetArtistByName(request.Context(), name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, artist)
}

func (handler *Handler) createArtist(writer http.ResponseWriter, request *http.Request) {
	var input NewArtist
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.CreateArtist(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) listArtworksByArtist(writer http.ResponseWriter, request *http.Request) {
	artistID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	artworks, err := handler.service.ListArtworksByArtist(request.Context(), artistID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, artworks)
}

func (handler *Handler) setVerification(writer http.ResponseWriter, request *http.Request) {
	artistID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input VerificationInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.SetVerification(request.Context(), artistID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

// # Artwork Handlers

func (handler *Handler) listArtworks(writer http.ResponseWriter, request *http.Request) {
	artworks, err := handler.service.ListArtworks(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, artworks)
}

func (handler *Handler) addArtwork(writer http.ResponseWriter, request *http.Request) {
	var input NewArtwork
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.AddArtwork(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, result)
}

func (handler *Handler) approveArtwork(writer http.ResponseWriter, request *http.Request) {
	artworkID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.ApproveArtwork(request.Context(), artworkID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

// # Dashboard Handlers

func (handler *Handler) getVerificationStats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.service.VerificationStats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats)
}
