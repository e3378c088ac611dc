// Package bom generates the environment's bill of materials.
//
// Each extension declares the components it contributes. Components whose
// version is only known after installation are declared "dynamic"; the
// tracker records the versions observed at install time and overlays them
// when the document is generated.
package bom
