// Package httpclient: 외부 HTTP 호출(Iris 등)에 쓰는 공용 http.Client를 만듭니다.
package httpclient

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/http2"
)

// Config: 클라이언트 타임아웃과 전송 방식
type Config struct {
	Timeout        time.Duration
	ConnectTimeout time.Duration
	// HTTP2Enabled: h2c(평문 HTTP/2)로 연결한다. 사내망 Iris 서버용.
	HTTP2Enabled bool
	// Tracing: 요청마다 OTel span을 만들고 trace context를 전파한다.
	Tracing bool
}

// New: 설정에 맞는 http.Client를 생성합니다.
func New(cfg Config) *http.Client {
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}
	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}

	var transport http.RoundTripper
	if cfg.HTTP2Enabled {
		transport = &http2.Transport{
			AllowHTTP: true,
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialer.DialContext(ctx, network, addr)
			},
		}
	} else {
		transport = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			MaxIdleConns:          20,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}
	}

	if cfg.Tracing {
		transport = otelhttp.NewTransport(transport)
	}

	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}
}
