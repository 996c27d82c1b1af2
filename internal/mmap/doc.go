// Package mmap maps structure files into memory for read-only access.
//
// On unix platforms the file is mapped with mmap(2) and advised for
// sequential access, since structure files are scanned once from start to
// end. Other platforms fall back to reading the whole file.
//
//	f, err := mmap.Open("1abc_A.pdb")
//	if err != nil { ... }
//	defer f.Close()
//
//	r := f.Reader()
//
// The returned bytes stay valid until Close.
package mmap
