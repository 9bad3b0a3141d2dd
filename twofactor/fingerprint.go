package twofactor

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"
)

// Fingerprint derives a stable device identifier from client signals.
// The result is the first 16 hex chars of SHA-256("{ua}|{ip}").
func Fingerprint(userAgent, ipAddress string) string {
	if userAgent == "" {
		userAgent = "unknown"
	}
	if ipAddress == "" {
		ipAddress = "unknown"
	}
	sum := sha256.Sum256([]byte(userAgent + "|" + ipAddress))
	return hex.EncodeToString(sum[:])[0:16]
}

// ClientIP extracts the caller address: forwarded-for first entry, then
// real-ip, then the direct peer.
func ClientIP(req *http.Request) string {
	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.Split(forwarded, ",")[0]
		if addr := strings.TrimSpace(first); addr != "" {
			return addr
		}
	}
	if realIP := strings.TrimSpace(req.Header.Get("X-Real-Ip")); realIP != "" {
		return realIP
	}
	if req.RemoteAddr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
