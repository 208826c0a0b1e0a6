// Package commands implements the fxquery command line.
//
// Each subcommand issues one exchange-rate request against the configured API
// and prints the response body exactly as received:
//
//	fxquery query --param from=USD --param to=EUR
//	fxquery history -p from=USD -p to=EUR -p start=2023-01-01
//
// FX_BASE_URL and the other FX_* variables are read from the environment or a
// .env file; --base-url and --timeout take precedence.
package commands
