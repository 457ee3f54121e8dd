// Package lut parses .cube 3D color lookup tables into flat RGBA float data
// ready for upload as a 3D texture.
package lut
