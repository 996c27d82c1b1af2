// Package report writes the result files of a run: the tab separated
// presence matrix and the JSON summary.
//
// The presence matrix has one column per structure, query first, and one
// row per accepted cluster:
//
//	Water Conservation Score	1abc_A	2xyz_A	3pqr_B
//	1	301	17	5
//	0.6666666666666666	302	NoWater	9
package report
