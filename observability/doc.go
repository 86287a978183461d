// Package observability provides OpenTelemetry tracing and metrics for
// graph execution.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("agentflow"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanNode)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("agentflow"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("agentflow"))
//	metrics.RecordNode(ctx, "pipeline", "analyze", "premium", "ok", duration, cost)
//
// RunSpan ties the run-level span and the run metrics together so the
// executor opens and closes both with one call pair:
//
//	ctx, rs := observability.StartRun(ctx, graphName, runID, metrics)
//	defer func() { rs.End(ctx, status, err) }()
//
// Health checks:
//
//	health := observability.NewServiceHealth("agentflow", version)
//	health.AddComponent(checker.CheckHealth(ctx))
package observability
