package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Varun984/Sparkathon-by-Walmart/api/responses"
	"github.com/Varun984/Sparkathon-by-Walmart/api/validators"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/gateway"
	pkgerrors "github.com/Varun984/Sparkathon-by-Walmart/pkg/errors"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/logger"
)

const maxPathString = 100

type lister interface {
	GetAll(ctx context.Context) gateway.Result
}

type creator interface {
	Create(ctx context.Context, payload json.RawMessage) gateway.Result
}

type getter interface {
	GetByID(ctx context.Context, id int64) gateway.Result
}

type updater interface {
	UpdateByID(ctx context.Context, id int64, patch json.RawMessage) gateway.Result
}

type deleter interface {
	DeleteByID(ctx context.Context, id int64) gateway.Result
}

// ListRecords serves every record of a collection.
func ListRecords(c lister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteResult(r.Context(), logg, w, http.StatusOK, c.GetAll(r.Context()))
	}
}

// CreateRecord inserts the JSON object in the request body.
func CreateRecord(c creator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := validators.ReadJSONObject(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteResult(r.Context(), logg, w, http.StatusCreated, c.Create(r.Context(), body))
	}
}

// GetRecord serves one record, answering 404 when the id is unknown.
func GetRecord(c getter, param, resource string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, param)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeFound(r.Context(), logg, w, c.GetByID(r.Context(), id), resource)
	}
}

// UpdateRecord merges the request body into the record.
func UpdateRecord(c updater, param, resource string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, param)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body, err := validators.ReadJSONObject(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeFound(r.Context(), logg, w, c.UpdateByID(r.Context(), id, body), resource)
	}
}

func DeleteRecord(c deleter, param, resource string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, param)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeFound(r.Context(), logg, w, c.DeleteByID(r.Context(), id), resource)
	}
}

// FindByID serves a lookup keyed by a numeric path parameter. Empty results
// are returned as an empty list.
func FindByID(find func(ctx context.Context, id int64) gateway.Result, param string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, param)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteResult(r.Context(), logg, w, http.StatusOK, find(r.Context(), id))
	}
}

// FindByString serves a lookup keyed by a string path parameter.
func FindByString(find func(ctx context.Context, value string) gateway.Result, param string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		value, err := validators.PathString(r, param, maxPathString)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteResult(r.Context(), logg, w, http.StatusOK, find(r.Context(), value))
	}
}

func writeFound(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, res gateway.Result, resource string) {
	if res.Empty() {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, resource+" not found"))
		return
	}
	responses.WriteResult(ctx, logg, w, http.StatusOK, res)
}

func patchOf(fields map[string]any) json.RawMessage {
	b, _ := json.Marshal(fields)
	return b
}
