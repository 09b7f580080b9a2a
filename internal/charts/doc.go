// Package charts builds the dashboard's go-echarts charts. Every builder
// returns a Snippet, the chart's element and script, ready to embed in a
// page that loads echarts once.
package charts
