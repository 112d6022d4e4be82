package protocol

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// esc escapes s for inclusion in XML character data or an attribute
// value. encoding/xml.EscapeText is the only piece of the standard
// library's XML support this renderer uses — nothing in the example
// corpus wraps an XML writer, so hand-built element text (matching the
// house style render/ddl and render/sqlrender already use for SQL text)
// is kept, and only character escaping is delegated to the standard
// library rather than re-implemented.
func esc(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// XMLv2 renders sch as an OData v2 CSDL document (edmx version 1.0).
func (sch *Schema) XMLv2() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	sb.WriteString(`<edmx:Edmx Version="1.0" xmlns:edmx="http://schemas.microsoft.com/ado/2007/06/edmx">` + "\n")
	sb.WriteString("  <edmx:DataServices m:DataServiceVersion=\"2.0\" xmlns:m=\"http://schemas.microsoft.com/ado/2007/08/dataservices/metadata\">\n")
	if sch.XServiceRef != nil {
		fmt.Fprintf(&sb, "    <!-- cross-service reference: %s -> %s -->\n", esc(sch.Namespace), esc(sch.XServiceRef.Uri))
	} else {
		fmt.Fprintf(&sb, "    <Schema Namespace=%q xmlns=\"http://schemas.microsoft.com/ado/2008/09/edm\">\n", sch.Namespace)
		for _, ct := range sch.ComplexTypes {
			writeComplexTypeXML(&sb, ct, "      ")
		}
		for _, et := range sch.EntityTypes {
			writeEntityTypeXMLv2(&sb, et, "      ")
		}
		writeContainerXMLv2(&sb, sch, "      ")
		sb.WriteString("    </Schema>\n")
	}
	sb.WriteString("  </edmx:DataServices>\n")
	sb.WriteString("</edmx:Edmx>\n")
	return sb.String()
}

// XMLv4 renders sch as an OData v4 CSDL document (edmx version 4.0).
func (sch *Schema) XMLv4() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	sb.WriteString(`<edmx:Edmx Version="4.0" xmlns:edmx="http://docs.oasis-open.org/odata/ns/edmx">` + "\n")
	if sch.XServiceRef != nil {
		fmt.Fprintf(&sb, "  <edmx:Reference Uri=%q>\n", esc(sch.XServiceRef.Uri))
		fmt.Fprintf(&sb, "    <edmx:Include Namespace=%q/>\n", esc(sch.XServiceRef.Namespace))
		sb.WriteString("  </edmx:Reference>\n")
		sb.WriteString("</edmx:Edmx>\n")
		return sb.String()
	}
	sb.WriteString("  <edmx:DataServices>\n")
	fmt.Fprintf(&sb, "    <Schema Namespace=%q xmlns=\"http://docs.oasis-open.org/odata/ns/edm\">\n", sch.Namespace)
	for _, ct := range sch.ComplexTypes {
		writeComplexTypeXML(&sb, ct, "      ")
	}
	for _, et := range sch.EntityTypes {
		writeEntityTypeXMLv4(&sb, et, "      ")
	}
	for _, op := range sch.Actions {
		writeOperationXML(&sb, op, "      ")
	}
	writeContainerXMLv4(&sb, sch, "      ")
	sb.WriteString("    </Schema>\n")
	sb.WriteString("  </edmx:DataServices>\n")
	sb.WriteString("</edmx:Edmx>\n")
	return sb.String()
}

func writeComplexTypeXML(sb *strings.Builder, ct *ComplexType, indent string) {
	fmt.Fprintf(sb, "%s<ComplexType Name=%q>\n", indent, esc(ct.Name))
	for _, p := range ct.Properties {
		writePropertyXML(sb, p, indent+"  ")
	}
	fmt.Fprintf(sb, "%s</ComplexType>\n", indent)
}

func writePropertyXML(sb *strings.Builder, p *Property, indent string) {
	fmt.Fprintf(sb, "%s<Property Name=%q Type=%q Nullable=%q", indent, esc(p.Name), esc(p.Type), strconv.FormatBool(p.Nullable))
	if p.MaxLength > 0 {
		fmt.Fprintf(sb, " MaxLength=%q", strconv.Itoa(p.MaxLength))
	}
	if p.Precision > 0 {
		fmt.Fprintf(sb, " Precision=%q", strconv.Itoa(p.Precision))
	}
	if p.Scale > 0 {
		fmt.Fprintf(sb, " Scale=%q", strconv.Itoa(p.Scale))
	}
	if p.Description != "" {
		sb.WriteString(">\n")
		fmt.Fprintf(sb, "%s  <Annotation Term=\"Core.Description\" String=%q/>\n", indent, esc(p.Description))
		fmt.Fprintf(sb, "%s</Property>\n", indent)
		return
	}
	sb.WriteString("/>\n")
}

func writeEntityTypeXMLv2(sb *strings.Builder, et *EntityType, indent string) {
	fmt.Fprintf(sb, "%s<EntityType Name=%q>\n", indent, esc(et.Name))
	if len(et.Keys) > 0 {
		fmt.Fprintf(sb, "%s  <Key>\n", indent)
		for _, k := range et.Keys {
			fmt.Fprintf(sb, "%s    <PropertyRef Name=%q/>\n", indent, esc(k))
		}
		fmt.Fprintf(sb, "%s  </Key>\n", indent)
	}
	for _, p := range et.Properties {
		writePropertyXML(sb, p, indent+"  ")
	}
	for _, np := range et.NavigationProperties {
		fmt.Fprintf(sb, "%s  <NavigationProperty Name=%q Relationship=%q FromRole=%q ToRole=%q/>\n",
			indent, esc(np.Name), esc(et.Name+"_"+np.Name), esc(et.Name), esc(strings.TrimPrefix(np.Type, "Collection(")))
	}
	fmt.Fprintf(sb, "%s</EntityType>\n", indent)
}

func writeEntityTypeXMLv4(sb *strings.Builder, et *EntityType, indent string) {
	fmt.Fprintf(sb, "%s<EntityType Name=%q>\n", indent, esc(et.Name))
	if len(et.Keys) > 0 {
		fmt.Fprintf(sb, "%s  <Key>\n", indent)
		for _, k := range et.Keys {
			fmt.Fprintf(sb, "%s    <PropertyRef Name=%q/>\n", indent, esc(k))
		}
		fmt.Fprintf(sb, "%s  </Key>\n", indent)
	}
	for _, p := range et.Properties {
		writePropertyXML(sb, p, indent+"  ")
	}
	for _, np := range et.NavigationProperties {
		fmt.Fprintf(sb, "%s  <NavigationProperty Name=%q Type=%q Nullable=%q", indent, esc(np.Name), esc(np.Type), strconv.FormatBool(np.Nullable))
		if np.ContainsTarget {
			sb.WriteString(" ContainsTarget=\"true\"")
		}
		if np.Partner != "" {
			fmt.Fprintf(sb, " Partner=%q", esc(np.Partner))
		}
		sb.WriteString("/>\n")
	}
	fmt.Fprintf(sb, "%s</EntityType>\n", indent)
}

func writeOperationXML(sb *strings.Builder, op *Operation, indent string) {
	kw := "Action"
	if op.IsFunction {
		kw = "Function"
	}
	fmt.Fprintf(sb, "%s<%s Name=%q>\n", indent, kw, esc(op.Name))
	for _, p := range op.Parameters {
		fmt.Fprintf(sb, "%s  <Parameter Name=%q Type=%q/>\n", indent, esc(p.Name), esc(p.Type))
	}
	if op.ReturnType != "" {
		fmt.Fprintf(sb, "%s  <ReturnType Type=%q/>\n", indent, esc(op.ReturnType))
	}
	fmt.Fprintf(sb, "%s</%s>\n", indent, kw)
}

func writeContainerXMLv2(sb *strings.Builder, sch *Schema, indent string) {
	if sch.Container == nil {
		return
	}
	fmt.Fprintf(sb, "%s<EntityContainer Name=%q m:IsDefaultEntityContainer=\"true\">\n", indent, esc(sch.Container.Name))
	for _, es := range sch.Container.EntitySets {
		fmt.Fprintf(sb, "%s  <EntitySet Name=%q EntityType=%q/>\n", indent, esc(es.Name), esc(sch.Namespace+"."+localPart(es.EntityType)))
	}
	fmt.Fprintf(sb, "%s</EntityContainer>\n", indent)
}

func writeContainerXMLv4(sb *strings.Builder, sch *Schema, indent string) {
	if sch.Container == nil {
		return
	}
	fmt.Fprintf(sb, "%s<EntityContainer Name=%q>\n", indent, esc(sch.Container.Name))
	for _, es := range sch.Container.EntitySets {
		if len(es.NavigationPropertyBindings) == 0 {
			fmt.Fprintf(sb, "%s  <EntitySet Name=%q EntityType=%q/>\n", indent, esc(es.Name), esc(es.EntityType))
			continue
		}
		fmt.Fprintf(sb, "%s  <EntitySet Name=%q EntityType=%q>\n", indent, esc(es.Name), esc(es.EntityType))
		for _, npb := range es.NavigationPropertyBindings {
			fmt.Fprintf(sb, "%s    <NavigationPropertyBinding Path=%q Target=%q/>\n", indent, esc(npb.Path), esc(npb.Target))
		}
		fmt.Fprintf(sb, "%s  </EntitySet>\n", indent)
	}
	for _, s := range sch.Container.Singletons {
		fmt.Fprintf(sb, "%s  <Singleton Name=%q Type=%q/>\n", indent, esc(s.Name), esc(s.EntityType))
	}
	fmt.Fprintf(sb, "%s</EntityContainer>\n", indent)
}
