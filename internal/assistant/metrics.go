package assistant

import "github.com/prometheus/client_golang/prometheus"

var llmLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "assistant_llm_request_duration_seconds",
		Help:    "Latency of chat-completion round trips to the LLM provider.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

var toolExecutionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "assistant_tool_executions_total",
		Help: "Tool executions by tool name and outcome.",
	},
	[]string{"tool", "outcome"},
)

var orchestrationRounds = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "assistant_orchestration_rounds",
		Help:    "Tool-execution rounds used per conversation turn.",
		Buckets: []float64{0, 1, 2, 3, 4, 5},
	},
)

func init() {
	prometheus.MustRegister(llmLatency)
	prometheus.MustRegister(toolExecutionsTotal)
	prometheus.MustRegister(orchestrationRounds)
}
