package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Varun984/Sparkathon-by-Walmart/api/responses"
	"github.com/Varun984/Sparkathon-by-Walmart/api/validators"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/gateway"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db/models"
	pkgerrors "github.com/Varun984/Sparkathon-by-Walmart/pkg/errors"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/logger"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/security"
)

// AdminView is an admin without its password hash.
type AdminView struct {
	AdminID   int64     `json:"adminId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const minPasswordLen = 8

type adminCreateBody struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

func AdminList(g *gateway.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeAdmins(w, r, logg, g.Admins.GetAll(r.Context()), false)
	}
}

func AdminGet(g *gateway.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "adminId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeAdmins(w, r, logg, g.Admins.GetByID(r.Context(), id), true)
	}
}

func AdminGetByEmail(g *gateway.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := validators.PathString(r, "email", 255)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeAdmins(w, r, logg, g.Admins.GetByEmail(r.Context(), email), true)
	}
}

// AdminCreate hashes the supplied password before the record is stored.
func AdminCreate(g *gateway.Gateway, hasher *security.Hasher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body adminCreateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		hash, err := hasher.Hash(body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password"))
			return
		}
		admin := models.Admin{
			Name:     validators.SanitizeString(body.Name, 255),
			Email:    body.Email,
			Password: hash,
		}
		res := g.Admins.Insert(r.Context(), &admin)
		if !res.Success {
			responses.WriteError(r.Context(), logg, w, res.Err())
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, adminViews(res.Data))
	}
}

// AdminUpdate rehashes a password present in the patch.
func AdminUpdate(g *gateway.Gateway, hasher *security.Hasher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "adminId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body, err := validators.ReadJSONObject(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body, err = hashPasswordField(hasher, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeAdmins(w, r, logg, g.Admins.UpdateByID(r.Context(), id, body), true)
	}
}

// hashPasswordField rewrites a "password" attribute of object as an Argon2id
// hash. Objects without one are returned unchanged.
func hashPasswordField(hasher *security.Hasher, object json.RawMessage) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(object, &fields); err != nil || fields == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request body must be a JSON object")
	}
	raw, ok := fields["password"]
	if !ok {
		return object, nil
	}
	var password string
	if err := json.Unmarshal(raw, &password); err != nil || len(password) < minPasswordLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be a string of at least 8 characters").
			WithDetails(map[string]any{"field": "password"})
	}
	hash, err := hasher.HashIfPlain(password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if fields["password"], err = json.Marshal(hash); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode password")
	}
	out, err := json.Marshal(fields)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode admin patch")
	}
	return out, nil
}

func AdminDelete(g *gateway.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "adminId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeAdmins(w, r, logg, g.Admins.DeleteByID(r.Context(), id), true)
	}
}

func writeAdmins(w http.ResponseWriter, r *http.Request, logg *logger.Logger, res gateway.Result, requireMatch bool) {
	switch {
	case !res.Success:
		responses.WriteError(r.Context(), logg, w, res.Err())
	case requireMatch && res.Empty():
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "admin not found"))
	default:
		responses.WriteSuccess(w, adminViews(res.Data))
	}
}

func adminViews(data any) []AdminView {
	admins, _ := data.([]models.Admin)
	views := make([]AdminView, 0, len(admins))
	for _, a := range admins {
		views = append(views, AdminView{
			AdminID:   a.AdminID,
			Name:      a.Name,
			Email:     a.Email,
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		})
	}
	return views
}
