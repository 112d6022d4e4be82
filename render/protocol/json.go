package protocol

import "encoding/json"

// JSONv4 renders sch as an OData v4 CSDL JSON document. Unlike XMLv4,
// here the standard library's own encoding/json does the whole job: the
// shape is a plain nested map, and json.Marshal already gives the
// Edm.Boolean-as-JSON-boolean behavior spec.md §4.5 calls for for free —
// there is no attribute-splitting step to hand-write as there is for XML.
func (sch *Schema) JSONv4() ([]byte, error) {
	doc := map[string]any{"$Version": "4.0"}
	if sch.XServiceRef != nil {
		doc["$Reference"] = map[string]any{
			sch.XServiceRef.Uri: map[string]any{"$Include": []any{map[string]any{"$Namespace": sch.XServiceRef.Namespace}}},
		}
		return json.MarshalIndent(doc, "", "  ")
	}
	doc[sch.Namespace] = schemaJSON(sch)
	return json.MarshalIndent(doc, "", "  ")
}

func schemaJSON(sch *Schema) map[string]any {
	m := map[string]any{}
	for _, ct := range sch.ComplexTypes {
		m[ct.Name] = complexTypeJSON(ct)
	}
	for _, et := range sch.EntityTypes {
		m[et.Name] = entityTypeJSON(et)
	}
	for _, op := range sch.Actions {
		kind := "Action"
		if op.IsFunction {
			kind = "Function"
		}
		m[op.Name] = []any{operationJSON(op, kind)}
	}
	if sch.Container != nil {
		m[sch.Container.Name] = containerJSON(sch.Container)
	}
	return m
}

func complexTypeJSON(ct *ComplexType) map[string]any {
	m := map[string]any{"$Kind": "ComplexType"}
	for _, p := range ct.Properties {
		m[p.Name] = propertyJSON(p)
	}
	return m
}

func entityTypeJSON(et *EntityType) map[string]any {
	m := map[string]any{"$Kind": "EntityType"}
	if len(et.Keys) > 0 {
		m["$Key"] = et.Keys
	}
	for _, p := range et.Properties {
		m[p.Name] = propertyJSON(p)
	}
	for _, np := range et.NavigationProperties {
		m[np.Name] = navPropertyJSON(np)
	}
	return m
}

func propertyJSON(p *Property) map[string]any {
	m := map[string]any{}
	if p.Type != "Edm.String" {
		m["$Type"] = p.Type
	}
	if !p.Nullable {
		m["$Nullable"] = false
	}
	if p.MaxLength > 0 {
		m["$MaxLength"] = p.MaxLength
	}
	if p.Precision > 0 {
		m["$Precision"] = p.Precision
	}
	if p.Scale > 0 {
		m["$Scale"] = p.Scale
	}
	return m
}

func navPropertyJSON(np *NavigationProperty) map[string]any {
	m := map[string]any{"$Kind": "NavigationProperty", "$Type": np.Type}
	if !np.Nullable {
		m["$Nullable"] = false
	}
	if np.ContainsTarget {
		m["$ContainsTarget"] = true
	}
	if np.Partner != "" {
		m["$Partner"] = np.Partner
	}
	return m
}

func operationJSON(op *Operation, kind string) map[string]any {
	m := map[string]any{"$Kind": kind}
	if len(op.Parameters) > 0 {
		params := make([]any, len(op.Parameters))
		for i, p := range op.Parameters {
			params[i] = map[string]any{"$Name": p.Name, "$Type": p.Type, "$Nullable": p.Nullable}
		}
		m["$Parameter"] = params
	}
	if op.ReturnType != "" {
		m["$ReturnType"] = map[string]any{"$Type": op.ReturnType}
	}
	return m
}

func containerJSON(c *EntityContainer) map[string]any {
	m := map[string]any{"$Kind": "EntityContainer"}
	for _, es := range c.EntitySets {
		entry := map[string]any{"$Collection": true, "$Type": es.EntityType}
		if len(es.NavigationPropertyBindings) > 0 {
			bindings := map[string]string{}
			for _, b := range es.NavigationPropertyBindings {
				bindings[b.Path] = b.Target
			}
			entry["$NavigationPropertyBinding"] = bindings
		}
		m[es.Name] = entry
	}
	for _, s := range c.Singletons {
		m[s.Name] = map[string]any{"$Type": s.EntityType}
	}
	return m
}
