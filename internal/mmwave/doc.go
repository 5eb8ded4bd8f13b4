// Package mmwave turns raw mmWave radar point-cloud captures into
// denoised, fixed-size point sets suitable for classifier training.
//
// The stages are small and composable: frame segmentation (segment.go),
// density clustering (dbscan.go, centroid.go), cross-frame association
// (hungarian.go, tracks.go), trajectory smoothing (kalman.go, filter.go),
// subject selection (selector.go) and cardinality normalization
// (normalize.go). The pipeline subpackage wires them together per sample;
// the tune subpackage searches the filter's noise parameters.
package mmwave
