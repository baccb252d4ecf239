package controllers

import (
	"net/http"

	"github.com/Varun984/Sparkathon-by-Walmart/api/responses"
)

func Ping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"service": "inventory-redistribution", "status": "ok"})
	}
}
