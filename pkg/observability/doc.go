/*
Package observability provides tools for monitoring graph compilation.

It turns the transformation hooks of a device graph into Prometheus metrics
and structured log records, and can chain several hook sets into one.
*/
package observability
