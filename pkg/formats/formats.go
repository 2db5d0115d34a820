// Package formats opens glTF 2.0 assets in either container layout.
package formats

// Note: JSON (.gltf) and binary (.glb) containers both decode through qmuntal/gltf.
// Note: GLB files are checked for the 'glTF' magic before decoding.
