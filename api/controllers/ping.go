package controllers

import (
	"net/http"

	"github.com/curbsidehq/curbside-backend/api/middleware"
	"github.com/curbsidehq/curbside-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "private", "status": "ok"}
		if truck := middleware.TruckIDFromContext(r.Context()); truck != "" {
			payload["truck_id"] = truck
		}
		responses.WriteSuccess(w, payload)
	}
}
