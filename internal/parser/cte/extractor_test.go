package cte_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/freight-audit/internal/model"
	"github.com/rezonia/freight-audit/internal/parser/cte"
)

const sampleCTe = `<?xml version="1.0" encoding="UTF-8"?>
<cteProc xmlns="http://www.portalfiscal.inf.br/cte" versao="3.00">
	<CTe>
		<infCte>
			<ide>
				<nCT>12345</nCT>
				<xMunIni>ITAJAI</xMunIni>
				<UFIni>SC</UFIni>
				<xMunFim>SAO PAULO</xMunFim>
				<UFFim>SP</UFFim>
			</ide>
			<vPrest>
				<vTPrest>1500,50</vTPrest>
			</vPrest>
			<infCTeNorm>
				<infCarga>
					<vCarga>25000.00</vCarga>
					<infQ>
						<tpMed>PESO DECLARADO</tpMed>
						<qCarga>250,0000</qCarga>
					</infQ>
					<infQ>
						<tpMed>peso base de calculo</tpMed>
						<qCarga>300</qCarga>
					</infQ>
					<infQ>
						<tpMed>PESO CUBADO</tpMed>
						<qCarga>2,5</qCarga>
					</infQ>
					<infQ>
						<tpMed>CAIXAS</tpMed>
						<qCarga>12</qCarga>
					</infQ>
				</infCarga>
			</infCTeNorm>
		</infCte>
	</CTe>
</cteProc>`

func TestParse_FullDocument(t *testing.T) {
	e := cte.NewExtractor()

	inv, err := e.Parse(context.Background(), strings.NewReader(sampleCTe))
	require.NoError(t, err)
	require.NotNil(t, inv)

	assert.Equal(t, "12345", inv.Number)
	assert.Equal(t, "SAO PAULO", inv.DestCity)
	assert.Equal(t, "SP", inv.DestState)

	assert.True(t, inv.BilledTotal.Equal(decimal.RequireFromString("1500.50")),
		"billed total: got %s", inv.BilledTotal)
	assert.True(t, inv.CargoValue.Equal(decimal.RequireFromString("25000.00")))
	assert.True(t, inv.DeclaredWeight.Equal(decimal.RequireFromString("250")))
	assert.True(t, inv.CalcWeight.Equal(decimal.RequireFromString("300")))
	assert.True(t, inv.CubedVolume.Equal(decimal.RequireFromString("2.5")))
}

func TestParse_BareCTeRoot(t *testing.T) {
	e := cte.NewExtractor()

	xml := `<CTe xmlns="http://www.portalfiscal.inf.br/cte">
		<infCte>
			<ide><nCT>77</nCT><xMunFim>JOINVILLE</xMunFim><UFFim>SC</UFFim></ide>
			<vPrest><vTPrest>80,00</vTPrest></vPrest>
		</infCte>
	</CTe>`

	inv, err := e.Parse(context.Background(), strings.NewReader(xml))
	require.NoError(t, err)
	assert.Equal(t, "77", inv.Number)
	assert.Equal(t, "JOINVILLE/SC", inv.Destination())
	assert.True(t, inv.BilledTotal.Equal(decimal.RequireFromString("80")))
}

func TestParse_MissingFieldsAreZero(t *testing.T) {
	e := cte.NewExtractor()

	// No infQ entries, no cargo value, no invoice number.
	xml := `<cteProc xmlns="http://www.portalfiscal.inf.br/cte"><CTe><infCte>
		<ide><UFFim>PR</UFFim></ide>
	</infCte></CTe></cteProc>`

	inv, err := e.Parse(context.Background(), strings.NewReader(xml))
	require.NoError(t, err)

	assert.Empty(t, inv.Number)
	assert.Empty(t, inv.DestCity)
	assert.True(t, inv.DeclaredWeight.IsZero())
	assert.True(t, inv.CalcWeight.IsZero())
	assert.True(t, inv.CubedVolume.IsZero())
	assert.True(t, inv.CargoValue.IsZero())
	assert.True(t, inv.BilledTotal.IsZero())
}

func TestParse_NotXML(t *testing.T) {
	e := cte.NewExtractor()

	_, err := e.Parse(context.Background(), strings.NewReader("not xml at all"))
	require.Error(t, err)

	var parseErr *model.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "xml", parseErr.Field)
}

func TestParse_WrongRootElement(t *testing.T) {
	e := cte.NewExtractor()

	_, err := e.Parse(context.Background(), strings.NewReader(`<nfeProc><NFe/></nfeProc>`))
	require.Error(t, err)

	var parseErr *model.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParse_DecimalCommaOnly(t *testing.T) {
	e := cte.NewExtractor()

	// The loader swaps only the comma for a dot. A thousands separator
	// produces "1.500.50", which does not parse and reads as zero.
	xml := `<cteProc xmlns="http://www.portalfiscal.inf.br/cte"><CTe><infCte>
		<ide><nCT>9</nCT></ide>
		<vPrest><vTPrest>1.500,50</vTPrest></vPrest>
	</infCte></CTe></cteProc>`

	inv, err := e.Parse(context.Background(), strings.NewReader(xml))
	require.NoError(t, err)
	assert.True(t, inv.BilledTotal.IsZero(),
		"adversarial thousands separator must parse to zero, got %s", inv.BilledTotal)
}

func TestCanParse(t *testing.T) {
	e := cte.NewExtractor()

	assert.True(t, e.CanParse([]byte(sampleCTe)))
	assert.False(t, e.CanParse([]byte(`<Invoice><InvoiceNo>1</InvoiceNo></Invoice>`)))
}
