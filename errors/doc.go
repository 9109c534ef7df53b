/*
Package errors provides errors that carry an ABCI code.

A root error is declared once with Register and is then wrapped with Wrap,
Wrapf or Field to add context. Is checks whether an error descends from a
given root, and ABCIInfo converts any error into the code and log of an
ABCI response.

The innermost wrap records a stack trace that can be printed with %+v.
*/
package errors
