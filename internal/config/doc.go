// Package config loads casestat configuration.
//
// # Configuration Sources
//
// Configuration is layered, later sources overriding earlier ones:
//
//	1. Default() values
//	2. YAML file (--config, or casestat.yaml / configs/casestat.yaml)
//	3. Environment variables prefixed CASESTAT_
//
// # Environment Variables
//
// Variables follow the section layout of Config:
//
//	CASESTAT_LOGGING_LEVEL=debug
//	CASESTAT_INPUT_MARKER=csv
//	CASESTAT_ER_RANK=5
//	CASESTAT_ER_BUCKET_STYLE=greater_than
//	CASESTAT_ER_VERIFY_TOTAL_ROW=false
//	CASESTAT_CHART_FONT_FAMILY="Noto Sans CJK TC"
//	CASESTAT_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/casestat.prom
//
// # YAML
//
//	logging:
//	  level: info
//	  output: both
//	  file_path: logs/casestat.log
//	er:
//	  rank: 10
//	  bucket_style: above
//	chart:
//	  enabled: true
//	  font_family: Arial Unicode MS
//
// The loaded configuration is checked with go-playground/validator; a bad
// value is a CONFIG error naming the offending fields.
package config
