// Package sparse is a small device sparse library built on OCCA kernels.
//
// Every routine takes a *Handle, validates its arguments in a fixed order
// (handle, pointers, values) and reports failures as *Error values carrying
// a Status. Device arrays are *gocca.OCCAMemory; a nil buffer plays the
// role of a null pointer. Indices are int32, values float32 or float64.
package sparse
