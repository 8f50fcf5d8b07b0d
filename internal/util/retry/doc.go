// Package retry provides exponential backoff retry logic for transient failures.
//
// The [WithExponentialBackoff] function retries an operation with configurable
// max attempts, initial delay, and maximum delay. It is used for remote compute
// API calls, artifact transfers, and commands executed over a remote transport.
package retry
