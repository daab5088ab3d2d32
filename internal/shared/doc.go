// Package shared holds code used by several packages that belongs to none of them.
//
// testutil provides the log capture handler and the raw ER and case fixtures
// the pipeline, app and command tests share. It must only be imported from
// _test.go files.
package shared
