// Package validation checks output locations before a pipeline run reads its input.
package validation
