// Package ecode builds the short messages used in searchsync errors, so a
// missing argument or a failed operation reads the same in every package.
//
//	err := fmt.Errorf("%w: %s", ErrMissingArgument, ecode.FieldIsRequired("type"))
//	// "missing argument: type required"
//
//	msg := ecode.NotExist("index", "products")
//	// "index products does not exist"
package ecode
