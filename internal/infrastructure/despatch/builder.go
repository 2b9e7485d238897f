// Package despatch construye la guía de remisión electrónica (UBL DespatchAdvice 2.1) de un envío.
// El documento lleva en ext:UBLExtensions el SHA-256 del XML canónico (C14N) sin la extensión.
package despatch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	applogistics "github.com/jhoicas/distribuidora-api/internal/application/logistics"
	"github.com/jhoicas/distribuidora-api/pkg/textnorm"
)

const (
	NamespaceDespatch = "urn:oasis:names:specification:ubl:schema:xsd:DespatchAdvice-2"
	NamespaceCAC      = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NamespaceCBC      = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
	NamespaceExt      = "urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2"
	AlgC14N           = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgSHA256         = "http://www.w3.org/2001/04/xmlenc#sha256"

	despatchTypeCode = "09" // guía de remisión remitente
	reasonSale       = "01" // motivo de traslado: venta
	transportPrivate = "02" // transporte privado (flota propia)
	defaultUnitCode  = "NIU"
)

var _ applogistics.DespatchBuilder = (*Builder)(nil)

// Builder implementa logistics.DespatchBuilder.
type Builder struct {
	supplierTaxID string
	supplierName  string
}

// NewBuilder construye el generador con los datos del remitente.
func NewBuilder(supplierTaxID, supplierName string) *Builder {
	return &Builder{supplierTaxID: supplierTaxID, supplierName: supplierName}
}

// BuildDespatchAdvice genera el XML firmado con digest.
func (b *Builder) BuildDespatchAdvice(_ context.Context, d *applogistics.DespatchAdvice) ([]byte, error) {
	if d == nil || d.Shipment == nil || d.Order == nil {
		return nil, fmt.Errorf("despatch: faltan envío o venta")
	}
	doc := b.document(d)
	unsigned, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("despatch: serializar: %w", err)
	}
	digest, err := Digest(unsigned)
	if err != nil {
		return nil, err
	}

	root := doc.Root()
	exts := etree.NewElement("ext:UBLExtensions")
	content := exts.CreateElement("ext:UBLExtension").CreateElement("ext:ExtensionContent")
	dv := content.CreateElement("DigestValue")
	dv.CreateAttr("CanonicalizationMethod", AlgC14N)
	dv.CreateAttr("Algorithm", AlgSHA256)
	dv.SetText(digest)
	root.InsertChildAt(0, exts)

	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("despatch: serializar: %w", err)
	}
	return out.Bytes(), nil
}

func (b *Builder) document(d *applogistics.DespatchAdvice) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("DespatchAdvice")
	root.CreateAttr("xmlns", NamespaceDespatch)
	root.CreateAttr("xmlns:cac", NamespaceCAC)
	root.CreateAttr("xmlns:cbc", NamespaceCBC)
	root.CreateAttr("xmlns:ext", NamespaceExt)

	cbc(root, "UBLVersionID", "2.1")
	cbc(root, "CustomizationID", "2.0")
	cbc(root, "ID", d.Shipment.Code)
	cbc(root, "IssueDate", d.IssuedAt.Format("2006-01-02"))
	cbc(root, "IssueTime", d.IssuedAt.Format("15:04:05"))
	cbc(root, "DespatchAdviceTypeCode", despatchTypeCode)
	if d.Order.Notes != "" {
		cbc(root, "Note", d.Order.Notes)
	}

	ref := root.CreateElement("cac:AdditionalDocumentReference")
	cbc(ref, "ID", d.Order.Number)
	cbc(ref, "DocumentTypeCode", string(d.Order.DocumentType))

	supplier := root.CreateElement("cac:DespatchSupplierParty").CreateElement("cac:Party")
	party(supplier, b.supplierTaxID, b.supplierName)

	if d.Customer != nil {
		customer := root.CreateElement("cac:DeliveryCustomerParty").CreateElement("cac:Party")
		party(customer, d.Customer.TaxID, d.Customer.Name)
	}

	b.shipment(root, d)

	for i, l := range d.Lines {
		line := root.CreateElement("cac:DespatchLine")
		cbc(line, "ID", strconv.Itoa(i+1))
		qty := cbc(line, "DeliveredQuantity", strconv.Itoa(l.Quantity))
		unit := defaultUnitCode
		if l.Product != nil && l.Product.UnitMeasure != "" && l.Product.UnitMeasure != "UND" {
			unit = l.Product.UnitMeasure
		}
		qty.CreateAttr("unitCode", unit)
		cbc(line.CreateElement("cac:OrderLineReference"), "LineID", strconv.Itoa(i+1))
		if l.Product != nil {
			item := line.CreateElement("cac:Item")
			cbc(item, "Description", l.Product.Name)
			cbc(item.CreateElement("cac:SellersItemIdentification"), "ID", l.Product.SKU)
		}
	}
	return doc
}

// shipment datos del traslado: motivo, modalidad, conductor, vehículo, partida y llegada.
func (b *Builder) shipment(root *etree.Element, d *applogistics.DespatchAdvice) {
	sh := root.CreateElement("cac:Shipment")
	cbc(sh, "ID", "SUNAT_Envio")
	cbc(sh, "HandlingCode", reasonSale)
	cbc(sh, "HandlingInstructions", "Venta")

	stage := sh.CreateElement("cac:ShipmentStage")
	cbc(stage, "TransportModeCode", transportPrivate)
	if d.Shipment.ScheduledAt != nil {
		cbc(stage.CreateElement("cac:TransitPeriod"), "StartDate", d.Shipment.ScheduledAt.Format("2006-01-02"))
	}
	if d.Driver != nil {
		person := stage.CreateElement("cac:DriverPerson")
		id := cbc(person, "ID", d.Driver.DocumentID)
		id.CreateAttr("schemeID", "1")
		cbc(person, "FirstName", d.Driver.FirstName)
		cbc(person, "FamilyName", d.Driver.LastName)
		cbc(person, "JobTitle", "Principal")
		cbc(person.CreateElement("cac:IdentityDocumentReference"), "ID", d.Driver.LicenseNumber)
	}

	delivery := sh.CreateElement("cac:Delivery")
	addr := delivery.CreateElement("cac:DeliveryAddress")
	cbc(addr.CreateElement("cac:AddressLine"), "Line", d.Order.DeliveryAddress)
	if d.Warehouse != nil {
		origin := delivery.CreateElement("cac:Despatch").CreateElement("cac:DespatchAddress")
		cbc(origin, "ID", textnorm.ASCII(d.Warehouse.Code))
		cbc(origin.CreateElement("cac:AddressLine"), "Line", d.Warehouse.Address)
	}

	if d.Vehicle != nil {
		equip := sh.CreateElement("cac:TransportHandlingUnit").CreateElement("cac:TransportEquipment")
		cbc(equip, "ID", d.Vehicle.Plate)
	}
}

func party(parent *etree.Element, taxID, name string) {
	if taxID != "" {
		id := cbc(parent.CreateElement("cac:PartyIdentification"), "ID", taxID)
		id.CreateAttr("schemeID", schemeIDFromTaxID(taxID))
	}
	cbc(parent.CreateElement("cac:PartyLegalEntity"), "RegistrationName", name)
}

// schemeIDFromTaxID 6 = RUC (11 dígitos), 1 = DNI.
func schemeIDFromTaxID(taxID string) string {
	if len(taxID) == 11 {
		return "6"
	}
	return "1"
}

func cbc(parent *etree.Element, local, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + local)
	el.SetText(value)
	return el
}

// Digest SHA-256 (base64) del XML canónico C14N 1.0.
func Digest(xmlBytes []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	dec.Entity = map[string]string{}
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("despatch: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

// StripExtensions quita ext:UBLExtensions para verificar el digest de un documento emitido.
func StripExtensions(xmlBytes []byte) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return nil, fmt.Errorf("despatch: parsear XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("despatch: documento sin raíz")
	}
	if ext := root.SelectElement("ext:UBLExtensions"); ext != nil {
		root.RemoveChild(ext)
	}
	return doc.WriteToBytes()
}
