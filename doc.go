// Package gv is the rendering core of a declarative genomic visualization
// system. A visualization is described as a hierarchy of view specifications;
// gv turns that hierarchy into packed GPU vertex arrays.
//
// The heavy lifting lives in the subpackages:
//
//   - param: hierarchical reactive parameter store with compiled expressions
//   - view: view tree, data loading, transforms and scale resolution
//   - mark: vertex-array builders for point, rect, rule, connection and text
//   - facet: per-sample vertical band placement with animated transitions
//   - font: bitmap-font metric tables for the text mark
//   - render: upload of built vertex arrays to a host-provided GPU device
//
// The root package holds the small shared pieces: the Datum type flowing
// through the pipeline, color parsing, configuration errors and the package
// logger.
//
// gv does not open windows or own a GPU device. The embedding application
// drives the frame loop, provides the device (see render.DeviceHandle) and
// consumes the draw batches this package produces.
package gv
