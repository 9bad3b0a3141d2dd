package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fiji/common"
	"net/http"
	"os"
)

var ErrTokenRevoked = errors.New("identity token revoked")
var ErrAccountDisabled = errors.New("identity account disabled")
var ErrTokenInvalid = errors.New("identity token invalid")
var ErrServiceUnavailable = errors.New("identity service unavailable")

// Claims is the opaque claim set surfaced by the external identity provider.
// The rest of the system only relies on a stable UID.
type Claims struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type Verifier interface {
	Verify(ctx context.Context, bearerToken string) (*Claims, error)
}

// VerifyIdentityFunc is installed once at bootstrap. Until then every
// verification fails with ErrServiceUnavailable.
var VerifyIdentityFunc = func(ctx context.Context, bearerToken string) (*Claims, error) {
	return nil, ErrServiceUnavailable
}

// Bootstrap constructs the provider client and installs it as VerifyIdentityFunc.
func Bootstrap() error {
	serviceURL := os.Getenv("IDENTITY_SERVICE_URL")
	if serviceURL == "" {
		return errors.New("environment variable IDENTITY_SERVICE_URL is not set")
	}
	verifier := &HttpVerifier{ServiceURL: serviceURL}
	VerifyIdentityFunc = verifier.Verify
	return nil
}

// HttpVerifier verifies bearer tokens against the identity provider's
// token verification endpoint. It is the only collaborator of that provider.
type HttpVerifier struct {
	ServiceURL string
}

type verificationFailure struct {
	Code string `json:"code"`
}

func (v *HttpVerifier) Verify(ctx context.Context, bearerToken string) (*Claims, error) {
	reqBody, err := json.Marshal(map[string]string{"token": bearerToken})
	if err != nil {
		return nil, err
	}
	status, respBody, err := common.HttpInvokeJson(http.MethodPost, v.ServiceURL+"/v1/token-verifications", nil, string(reqBody))
	if err != nil {
		if status == 0 || status >= http.StatusInternalServerError {
			return nil, ErrServiceUnavailable
		}
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			failure := verificationFailure{}
			_ = json.Unmarshal([]byte(respBody), &failure)
			switch failure.Code {
			case "token_revoked":
				return nil, ErrTokenRevoked
			case "account_disabled":
				return nil, ErrAccountDisabled
			default:
				return nil, ErrTokenInvalid
			}
		}
		return nil, err
	}

	claims := Claims{}
	if err := json.Unmarshal([]byte(respBody), &claims); err != nil {
		return nil, err
	}
	if claims.UID == "" {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}
