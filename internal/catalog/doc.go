// Package catalog implements the Johnny Decimal numbering catalog: a fixed
// index of ten areas, each holding ten categories, each holding a thousand
// item slots. Every table is addressed by number, so a slot's position always
// equals the id stored in it.
//
// An Index is not safe for concurrent mutation. Search is the only operation
// that fans out across goroutines, and it only reads.
package catalog
