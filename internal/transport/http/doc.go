// Package http implements the HTTP handlers of the sheetsight web service.
// Handlers stay thin: they parse multipart forms and JSON bodies, validate
// request structs, call the service layer and render the api/v1 contracts.
//
// # Routes
//
// ReportHandler.Routes is mounted under /api:
//
//	POST /upload-excel                   basic report from one upload
//	POST /upload-excel-enhanced          template report with optional trend
//	POST /compare                        compare two uploads ("files" parts)
//	POST /rank                           rank 2 to 10 uploads by column totals
//	GET  /report/{sessionID}             stored report payload
//	GET  /report/{sessionID}/metrics.csv metrics export
//	GET  /templates                      template catalogue
//	POST /period-comparison/{sessionID}  latest two periods of a report
//
// HealthHandler serves GET /api/health.
//
// # Errors
//
// Every failure is passed to errors.ErrorHandler, which renders an RFC 7807
// problem document:
//
//	{
//	    "type": "/errors/missing-columns",
//	    "title": "Missing Required Columns",
//	    "status": 400,
//	    "detail": "missing required columns: quantity",
//	    "instance": "/api/upload-excel"
//	}
package http
