package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	workflowExecutions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flowboard_api_workflow_executions_total",
		Help: "Total number of workflow executions started via the API.",
	})

	fileUploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flowboard_api_file_uploads_total",
		Help: "Total number of file uploads, labeled by classified category.",
	}, []string{"category"})

	templateApplies = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flowboard_api_template_applies_total",
		Help: "Total number of workflows created from templates.",
	})
)

func init() {
	prometheus.MustRegister(workflowExecutions)
	prometheus.MustRegister(fileUploads)
	prometheus.MustRegister(templateApplies)
}
