// Package transform defines the value types shared by transform sets and the
// descriptors they produce: image formats, resize modes, the bag of optional
// cascadable properties, and the resolved Transform handed to the host's
// image pipeline.
package transform
