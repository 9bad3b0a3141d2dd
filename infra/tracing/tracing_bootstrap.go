package tracing

import (
	"fiji/common"
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// Bootstrap installs a jaeger tracer built from JAEGER_* environment
// variables as the opentracing global tracer. When the environment carries
// no jaeger settings the no-op tracer stays in place.
func Bootstrap() io.Closer {
	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		logrus.Warnf("failed to parse jaeger config from env: %v", err)
		return nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = common.GetServiceName()
	}

	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		logrus.Warnf("failed to create jaeger tracer: %v", err)
		return nil
	}
	opentracing.SetGlobalTracer(tracer)
	return closer
}
