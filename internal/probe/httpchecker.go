package probe

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"
)

// HTTPProber answers "is something speaking HTTP here". Certificate checks are
// off and the status code is not inspected: a 503 is still Reachable.
type HTTPProber struct {
	Client *http.Client
}

func NewHTTPProber(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPProber{
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // probe only checks liveness
			},
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (h *HTTPProber) Probe(ctx context.Context, target string) Outcome {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return Outcome{Result: Unreachable, Reason: err.Error()}
	}

	resp, err := h.Client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return Outcome{Result: Unreachable, Latency: latency, Reason: err.Error()}
	}
	resp.Body.Close()

	return Outcome{
		Result:     Reachable,
		StatusCode: resp.StatusCode,
		Latency:    latency,
		Reason:     resp.Status,
	}
}
