package identity_test

import (
	"context"
	"encoding/json"
	"fiji/identity"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/gomega"
)

func TestHttpVerifier(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should post the token and decode the claims", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.Method).To(Equal(http.MethodPost))
			Expect(r.URL.Path).To(Equal("/v1/token-verifications"))
			body, _ := ioutil.ReadAll(r.Body)
			payload := map[string]string{}
			Expect(json.Unmarshal(body, &payload)).To(BeNil())
			Expect(payload["token"]).To(Equal("provider-token"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"uid":"user-1","email":"ann@test.local","displayName":"Ann"}`))
		}))
		defer server.Close()

		verifier := identity.HttpVerifier{ServiceURL: server.URL}
		claims, err := verifier.Verify(context.Background(), "provider-token")
		Expect(err).To(BeNil())
		Expect(*claims).To(Equal(identity.Claims{UID: "user-1", Email: "ann@test.local", DisplayName: "Ann"}))
	})

	t.Run("should map provider rejections to typed errors", func(t *testing.T) {
		cases := []struct {
			status   int
			body     string
			expected error
		}{
			{http.StatusUnauthorized, `{"code":"token_revoked"}`, identity.ErrTokenRevoked},
			{http.StatusForbidden, `{"code":"account_disabled"}`, identity.ErrAccountDisabled},
			{http.StatusUnauthorized, `{"code":"unknown"}`, identity.ErrTokenInvalid},
			{http.StatusUnauthorized, `not json`, identity.ErrTokenInvalid},
			{http.StatusInternalServerError, ``, identity.ErrServiceUnavailable},
			{http.StatusBadGateway, ``, identity.ErrServiceUnavailable},
		}
		for _, c := range cases {
			current := c
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(current.status)
				_, _ = w.Write([]byte(current.body))
			}))

			verifier := identity.HttpVerifier{ServiceURL: server.URL}
			_, err := verifier.Verify(context.Background(), "some-token")
			Expect(err).To(Equal(current.expected), "for status %d body %q", current.status, current.body)
			server.Close()
		}
	})

	t.Run("an unreachable provider is a service outage", func(t *testing.T) {
		verifier := identity.HttpVerifier{ServiceURL: "http://127.0.0.1:1"}
		_, err := verifier.Verify(context.Background(), "some-token")
		Expect(err).To(Equal(identity.ErrServiceUnavailable))
	})

	t.Run("claims without a uid are invalid", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"email":"ann@test.local"}`))
		}))
		defer server.Close()

		verifier := identity.HttpVerifier{ServiceURL: server.URL}
		_, err := verifier.Verify(context.Background(), "some-token")
		Expect(err).To(Equal(identity.ErrTokenInvalid))
	})
}
