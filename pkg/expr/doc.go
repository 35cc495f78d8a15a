// Package expr provides CEL (Common Expression Language) functionality
// for evaluating call-matching expressions.
//
// CEL expressions have access to variables:
//   - `number` (string): The dialed/calling phone number, as provided
//   - `lookupKey` (string): Stable contact identifier, empty for unknown callers
//   - `known` (bool): Whether the caller resolved to a contact
//
// A `digits` function is available for number comparisons that should
// ignore formatting, e.g. digits(number) == digits("+1 555-0001").
package expr
