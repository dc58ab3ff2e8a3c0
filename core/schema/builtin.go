package schema

// builtinNames covers the entities and defined types that appear in almost
// every IFC2X3/IFC4 file. Files using other names still decode; their labels
// and records carry the Unknown code until the names are registered.
var builtinNames = []string{
	// Header section
	"FILE_DESCRIPTION", "FILE_NAME", "FILE_SCHEMA",

	// Project structure
	"IFCPROJECT", "IFCSITE", "IFCBUILDING", "IFCBUILDINGSTOREY", "IFCSPACE",
	"IFCRELAGGREGATES", "IFCRELCONTAINEDINSPATIALSTRUCTURE",
	"IFCRELDEFINESBYPROPERTIES", "IFCRELDEFINESBYTYPE", "IFCRELASSOCIATESMATERIAL",
	"IFCRELVOIDSELEMENT", "IFCRELFILLSELEMENT",

	// Ownership
	"IFCOWNERHISTORY", "IFCPERSON", "IFCORGANIZATION", "IFCPERSONANDORGANIZATION",
	"IFCAPPLICATION",

	// Units
	"IFCUNITASSIGNMENT", "IFCSIUNIT", "IFCDIMENSIONALEXPONENTS",
	"IFCCONVERSIONBASEDUNIT", "IFCMEASUREWITHUNIT",

	// Building elements
	"IFCWALL", "IFCWALLSTANDARDCASE", "IFCSLAB", "IFCBEAM", "IFCCOLUMN",
	"IFCDOOR", "IFCWINDOW", "IFCROOF", "IFCSTAIR", "IFCRAILING", "IFCPLATE",
	"IFCMEMBER", "IFCCOVERING", "IFCFOOTING", "IFCOPENINGELEMENT",
	"IFCREINFORCINGBAR", "IFCBUILDINGELEMENTPROXY", "IFCFURNISHINGELEMENT",
	"IFCWALLTYPE", "IFCSLABTYPE", "IFCDOORTYPE", "IFCWINDOWTYPE",

	// Properties and quantities
	"IFCPROPERTYSET", "IFCPROPERTYSINGLEVALUE", "IFCPROPERTYENUMERATEDVALUE",
	"IFCELEMENTQUANTITY", "IFCQUANTITYLENGTH", "IFCQUANTITYAREA",
	"IFCQUANTITYVOLUME", "IFCQUANTITYCOUNT", "IFCQUANTITYWEIGHT",

	// Materials
	"IFCMATERIAL", "IFCMATERIALLAYER", "IFCMATERIALLAYERSET",
	"IFCMATERIALLAYERSETUSAGE", "IFCMATERIALLIST",

	// Geometry and placement
	"IFCCARTESIANPOINT", "IFCDIRECTION", "IFCAXIS2PLACEMENT2D",
	"IFCAXIS2PLACEMENT3D", "IFCLOCALPLACEMENT", "IFCGEOMETRICREPRESENTATIONCONTEXT",
	"IFCGEOMETRICREPRESENTATIONSUBCONTEXT", "IFCPRODUCTDEFINITIONSHAPE",
	"IFCSHAPEREPRESENTATION", "IFCEXTRUDEDAREASOLID", "IFCRECTANGLEPROFILEDEF",
	"IFCARBITRARYCLOSEDPROFILEDEF", "IFCPOLYLINE", "IFCPOLYLOOP", "IFCFACE",
	"IFCFACEOUTERBOUND", "IFCFACETEDBREP", "IFCCLOSEDSHELL", "IFCMAPPEDITEM",
	"IFCREPRESENTATIONMAP", "IFCCARTESIANTRANSFORMATIONOPERATOR3D",
	"IFCBOOLEANCLIPPINGRESULT", "IFCHALFSPACESOLID", "IFCPLANE",
	"IFCALIGNMENT", "IFCSECTIONEDSOLID", "IFCSECTIONEDSURFACE",
	"IFCSECTIONEDSOLIDHORIZONTAL",

	// Presentation
	"IFCSTYLEDITEM", "IFCSURFACESTYLE", "IFCSURFACESTYLERENDERING",
	"IFCCOLOURRGB", "IFCPRESENTATIONSTYLEASSIGNMENT",

	// Defined types used as typed labels
	"IFCLABEL", "IFCTEXT", "IFCIDENTIFIER", "IFCBOOLEAN", "IFCLOGICAL",
	"IFCINTEGER", "IFCREAL", "IFCCOUNTMEASURE", "IFCLENGTHMEASURE",
	"IFCPOSITIVELENGTHMEASURE", "IFCAREAMEASURE", "IFCVOLUMEMEASURE",
	"IFCMASSMEASURE", "IFCPLANEANGLEMEASURE", "IFCRATIOMEASURE",
	"IFCNORMALISEDRATIOMEASURE", "IFCPOSITIVERATIOMEASURE",
	"IFCTHERMALTRANSMITTANCEMEASURE", "IFCPOWERMEASURE", "IFCTIMESTAMP",
	"IFCPARAMETERVALUE", "IFCDESCRIPTIVEMEASURE",
}
