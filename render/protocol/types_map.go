package protocol

import "github.com/csnlower/csnlower/model"

// edmPrimitive maps a cds scalar base to its Edm primitive type name, the
// closed scalar whitelist spec.md §4.1 pass 17 requires key-path elements
// to belong to.
func edmPrimitive(base string) (string, bool) {
	m := map[string]string{
		"cds.String":      "Edm.String",
		"cds.LargeString": "Edm.String",
		"cds.Boolean":     "Edm.Boolean",
		"cds.Integer":     "Edm.Int32",
		"cds.Integer16":   "Edm.Int16",
		"cds.Integer64":   "Edm.Int64",
		"cds.Decimal":     "Edm.Decimal",
		"cds.Double":      "Edm.Double",
		"cds.Date":        "Edm.Date",
		"cds.Time":        "Edm.TimeOfDay",
		"cds.DateTime":    "Edm.DateTimeOffset",
		"cds.Timestamp":   "Edm.DateTimeOffset",
		"cds.UUID":        "Edm.Guid",
		"cds.Binary":      "Edm.Binary",
		"cds.LargeBinary": "Edm.Binary",
		"cds.Geometry":    "Edm.Geometry",
		"cds.Point":       "Edm.GeometryPoint",
	}
	t, ok := m[base]
	return t, ok
}

// propertyFromScalar renders e's scalar type/facets into a Property. Used
// for both flat and structured leaf elements — buildEntityType hands
// anonymous structs to structProperty and arrays to collectionProperty, and
// this function does not read an Element's Elements/Items.
func propertyFromScalar(e *model.Element) *Property {
	p := &Property{Name: e.Name, Nullable: !e.Key && !e.NotNull}
	if e.Base != nil {
		t, ok := edmPrimitive(e.Base.Base)
		if !ok {
			t = "Edm.String"
		}
		p.Type = t
		p.MaxLength = e.Base.Length
		p.Precision = e.Base.Precision
		p.Scale = e.Base.Scale
		p.SRID = e.Base.SRID
	} else if e.Type != "" {
		p.Type = localQualifiedName(e.Type)
	}
	if desc, ok := e.Annotations.Get("@Core.Description"); ok {
		p.Description = desc.String
	} else {
		p.Description = e.Doc
	}
	return p
}

// localQualifiedName strips nothing — model names are already
// fully-qualified dotted names, which is exactly the form CSDL qualified
// names take, so a named-type reference renders as-is.
func localQualifiedName(fq string) string { return fq }
