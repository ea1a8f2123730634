// Package cte parses CT-e road-freight invoice documents
// (namespace http://www.portalfiscal.inf.br/cte) into normalized
// shipment records.
package cte

import (
	"context"
	"encoding/xml"
	"io"
	"strings"

	dec "github.com/rezonia/freight-audit/internal/decimal"
	"github.com/rezonia/freight-audit/internal/model"
)

// Namespace is the CT-e document namespace.
const Namespace = "http://www.portalfiscal.inf.br/cte"

// Measure-type labels carried by infQ entries. Matching is
// case-insensitive on the trimmed label.
const (
	measureDeclaredWeight = "PESO DECLARADO"
	measureCalcWeight     = "PESO BASE DE CALCULO"
	measureCubedVolume    = "PESO CUBADO"
	measureCubage         = "CUBAGEM"
)

// CT-e XML structures. Only the elements the reconciliation needs are
// mapped; everything else is ignored by encoding/xml.
type cteProc struct {
	XMLName xml.Name `xml:"cteProc"`
	CTe     cteRoot  `xml:"CTe"`
}

type cteRoot struct {
	XMLName xml.Name `xml:"CTe"`
	InfCte  cteInf   `xml:"infCte"`
}

type cteInf struct {
	Ide    cteIde    `xml:"ide"`
	VPrest cteVPrest `xml:"vPrest"`
	Norm   cteNorm   `xml:"infCTeNorm"`
}

type cteIde struct {
	NCT     string `xml:"nCT"`
	XMunIni string `xml:"xMunIni"`
	UFIni   string `xml:"UFIni"`
	XMunFim string `xml:"xMunFim"`
	UFFim   string `xml:"UFFim"`
}

type cteVPrest struct {
	VTPrest string `xml:"vTPrest"`
}

type cteNorm struct {
	InfCarga cteCarga `xml:"infCarga"`
}

type cteCarga struct {
	VCarga string          `xml:"vCarga"`
	InfQ   []cteQuantidade `xml:"infQ"`
}

type cteQuantidade struct {
	TpMed  string `xml:"tpMed"`
	QCarga string `xml:"qCarga"`
}

// Extractor parses CT-e XML documents.
type Extractor struct{}

// NewExtractor creates a new CT-e extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// CanParse returns true if the content looks like a CT-e document.
func (e *Extractor) CanParse(content []byte) bool {
	s := string(content)
	return strings.Contains(s, Namespace) ||
		strings.Contains(s, "<cteProc") ||
		strings.Contains(s, "<CTe")
}

// Parse reads one CT-e document into a ShipmentInvoice. Missing
// optional elements yield zero values; only a document that is not
// parseable as the schema at all is an error.
func (e *Extractor) Parse(ctx context.Context, r io.Reader) (*model.ShipmentInvoice, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewParseError("cte", "content", "failed to read content", err)
	}
	return e.ParseBytes(ctx, content)
}

// ParseBytes parses raw CT-e XML bytes.
func (e *Extractor) ParseBytes(_ context.Context, content []byte) (*model.ShipmentInvoice, error) {
	inf, err := unmarshalInfCte(content)
	if err != nil {
		return nil, model.NewParseError("cte", "xml", "not a parseable CT-e document", err)
	}
	return convert(inf, content), nil
}

// unmarshalInfCte accepts both the processed envelope (<cteProc>) and
// a bare <CTe> root.
func unmarshalInfCte(content []byte) (*cteInf, error) {
	var proc cteProc
	if err := xml.Unmarshal(content, &proc); err == nil {
		return &proc.CTe.InfCte, nil
	}

	var root cteRoot
	if err := xml.Unmarshal(content, &root); err != nil {
		return nil, err
	}
	return &root.InfCte, nil
}

func convert(inf *cteInf, rawXML []byte) *model.ShipmentInvoice {
	result := &model.ShipmentInvoice{
		Number:      strings.TrimSpace(inf.Ide.NCT),
		DestCity:    strings.TrimSpace(inf.Ide.XMunFim),
		DestState:   strings.TrimSpace(inf.Ide.UFFim),
		BilledTotal: dec.ParseBR(inf.VPrest.VTPrest),
		CargoValue:  dec.ParseBR(inf.Norm.InfCarga.VCarga),
		RawXML:      rawXML,
	}

	for _, q := range inf.Norm.InfCarga.InfQ {
		value := dec.ParseBR(q.QCarga)
		switch strings.ToUpper(strings.TrimSpace(q.TpMed)) {
		case measureDeclaredWeight:
			result.DeclaredWeight = value
		case measureCalcWeight:
			result.CalcWeight = value
		case measureCubedVolume, measureCubage:
			result.CubedVolume = value
		}
		// Unmatched labels are ignored.
	}

	return result
}
