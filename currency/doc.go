// Package currency implements conversion backends for the currencies
// in which campaign amounts can be written.
//
// Use IsSupported to check if the currency is supported and
// NewParser to obtain a parser for that currency. ParseAmount accepts
// both ether and wei notations.
package currency
