package mainboilerplate

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// DiagnosticsConfig configures application metrics and debugging.
type DiagnosticsConfig struct {
	MetricsFile string `long:"metrics-file" env:"METRICS_FILE" description:"Path to which collected metrics are written, in Prometheus text format, on exit"`
}

// InitDiagnosticsAndRecover returns a closure which should be deferred. It
// writes collected metrics to the configured MetricsFile (if any), and
// recovers a panic to log it along with a K8s termination message, before
// re-panicking.
func InitDiagnosticsAndRecover(cfg DiagnosticsConfig) func() {
	return func() {
		var r = recover()

		if cfg.MetricsFile != "" {
			if err := prometheus.WriteToTextfile(cfg.MetricsFile, prometheus.DefaultGatherer); err != nil {
				log.WithFields(log.Fields{"err": err, "path": cfg.MetricsFile}).Warn("failed to write metrics")
			}
		}
		if r != nil {
			// Make a best effort attempt to write a termination message.
			// Bug: https://github.com/kubernetes/kubernetes/issues/31839
			if f, err := os.OpenFile(k8sTerminationLog, os.O_WRONLY, 0777); err == nil {
				fmt.Fprintf(f, "%+v", r)
				f.Close()
			}
			panic(r)
		}
	}
}

// Must panics if |err| is non-nil, supplying |msg| and |extra| as
// formatter and fields of the generated panic.
func Must(err error, msg string, extra ...interface{}) {
	if err == nil {
		return
	}
	var f = log.Fields{"err": err}
	for i := 0; i+1 < len(extra); i += 2 {
		f[extra[i].(string)] = extra[i+1]
	}
	log.WithFields(f).Panic(msg)
}

const (
	// k8sTerminationLog is the location to write a termination message for
	// Kubernetes to retrieve.
	//
	// Link: https://kubernetes.io/docs/tasks/debug-application-cluster/determine-reason-pod-failure/#setting-the-termination-log-file
	k8sTerminationLog = "/dev/termination-log"
)
