package builder

//-----------------------------------------------------------------------------
// Builder Method Name Constants
//   used to prefix errors with the constructor name for context.
//-----------------------------------------------------------------------------

const (
	// MethodGrid is the canonical name for the Grid constructor.
	MethodGrid = "Grid"
	// MethodLShape is the canonical name for the LShape constructor.
	MethodLShape = "LShape"
	// MethodSlit is the canonical name for the Slit constructor.
	MethodSlit = "Slit"
	// MethodCylinder is the canonical name for the Cylinder constructor.
	MethodCylinder = "Cylinder"
)

//-----------------------------------------------------------------------------
// Minimum sizes
//-----------------------------------------------------------------------------

const (
	// MinGridDim is the minimum number of cells per grid side.
	MinGridDim = 1
	// MinSplitDim is the minimum side of LShape and Slit.
	MinSplitDim = 2
	// MinCylinderSegments is the minimum number of cells around a Cylinder.
	MinCylinderSegments = 3
	// MinCylinderRings is the minimum number of cell rows along a Cylinder.
	MinCylinderRings = 1
)
