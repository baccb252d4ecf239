package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Varun984/Sparkathon-by-Walmart/api/responses"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/gateway"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/logger"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/security"
)

type gatewayRequest struct {
	Operation string          `json:"operation"`
	Payload   json.RawMessage `json:"payload"`
}

// GatewayDispatch runs {operation, payload} through the gateway and returns
// the same envelope the command line prints. Admin passwords are hashed on
// the way in and never echoed back.
func GatewayDispatch(g *gateway.Gateway, hasher *security.Hasher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gatewayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Operation == "" {
			if logg != nil {
				logg.Warn(r.Context(), "gateway.request_rejected")
			}
			responses.WriteRaw(w, gateway.InvalidOperation())
			return
		}

		module, method, _ := gateway.SplitOperation(req.Operation)
		if module != gateway.ModuleAdmins {
			responses.WriteRaw(w, g.Dispatch(r.Context(), req.Operation, req.Payload))
			return
		}

		payload, err := hashAdminPayload(hasher, method, req.Payload)
		if err != nil {
			responses.WriteRaw(w, gateway.Failure(err))
			return
		}
		res := g.Dispatch(r.Context(), req.Operation, payload)
		if res.Success {
			res.Data = adminViews(res.Data)
		}
		responses.WriteRaw(w, res)
	}
}

// hashAdminPayload replaces a plain password in admin_ops.create and
// admin_ops.updateById arguments. Payloads of any other shape pass through
// for the gateway to reject.
func hashAdminPayload(hasher *security.Hasher, method string, payload json.RawMessage) (json.RawMessage, error) {
	switch method {
	case "create":
		if !isJSONObject(payload) {
			return payload, nil
		}
		return hashPasswordField(hasher, payload)
	case "updateById":
		var parts []json.RawMessage
		if err := json.Unmarshal(payload, &parts); err != nil || len(parts) != 2 || !isJSONObject(parts[1]) {
			return payload, nil
		}
		patch, err := hashPasswordField(hasher, parts[1])
		if err != nil {
			return nil, err
		}
		parts[1] = patch
		return json.Marshal(parts)
	}
	return payload, nil
}

func isJSONObject(raw json.RawMessage) bool {
	var fields map[string]json.RawMessage
	return json.Unmarshal(raw, &fields) == nil && fields != nil
}

func GatewayOperations(g *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, g.Operations())
	}
}
