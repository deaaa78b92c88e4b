// Package templates holds the industry report templates and their KPIs.
//
// The registry is embedded as YAML and loaded once. Custom KPIs refer to a
// named entry in a fixed formula table instead of carrying code, so the
// registry stays plain data. Detect picks a template from a table's
// columns and CalculateKPIs evaluates a template over normalized rows.
package templates
