// Package admin is the client for the merchant administration service that
// holds each merchant's printer configuration.
//
// The service takes form-encoded POSTs carrying data[token] and
// data[merchant_id] and answers with an envelope:
//
//	{"status": 1, "data": {...}}   // success
//	{"status": 0, "data": "why"}   // failure, data holds the message
//
// A MerchantConfig is only used to stage settings on a printer adapter.
package admin
