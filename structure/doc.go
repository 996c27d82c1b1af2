// Package structure holds the water-oxygen data model and the fixed-width
// HETATM parser used to read superimposed structure files.
//
// A structure is identified by a Key (4-character PDB id plus 1-character
// chain). Its WaterAtoms keep the order in which they appear in the file;
// that insertion order is used downstream to break ties.
//
// # Input formats
//
// Open selects a decompressor by file extension:
//
//	1abc_A.pdb      plain text
//	1abc_A.pdb.gz   gzip (klauspost/compress)
//	1abc_A.pdb.zst  zstd (klauspost/compress)
//	1abc_A.pdb.lz4  lz4 frame (pierrec/lz4)
package structure
