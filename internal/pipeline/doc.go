// Package pipeline wires the locate, normalize, filter, rank, aggregate and
// export stages into the two runs the command line tools expose: the ER
// consultation-rate ranking and the disease-case summary.
//
// Every run and stage is a span, and every run records the pipeline metrics
// whether it succeeds or fails.
package pipeline
