package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
)

// catalogo es el XML de datos maestros:
//
//	<catalogo actor="u-1">
//	  <productos><producto id="P-1" sku="SKU-1" nombre="Tornillo"/></productos>
//	  <bodegas><bodega id="BOD-1" nombre="Principal"/></bodegas>
//	  <usuarios><usuario id="u-1" email="admin@example.com"/></usuarios>
//	  <existencias><existencia producto="P-1" bodega="BOD-1" cantidad="100" costo="2500"/></existencias>
//	</catalogo>
type catalogo struct {
	Actor       string       `xml:"actor,attr"`
	Productos   []producto   `xml:"productos>producto"`
	Bodegas     []bodega     `xml:"bodegas>bodega"`
	Usuarios    []usuario    `xml:"usuarios>usuario"`
	Existencias []existencia `xml:"existencias>existencia"`
}

type producto struct {
	ID     string `xml:"id,attr"`
	SKU    string `xml:"sku,attr"`
	Nombre string `xml:"nombre,attr"`
}

type bodega struct {
	ID     string `xml:"id,attr"`
	Nombre string `xml:"nombre,attr"`
}

type usuario struct {
	ID    string `xml:"id,attr"`
	Email string `xml:"email,attr"`
}

type existencia struct {
	Producto string `xml:"producto,attr"`
	Bodega   string `xml:"bodega,attr"`
	Cantidad int64  `xml:"cantidad,attr"`
	Costo    string `xml:"costo,attr"`
}

// openingStock existencia inicial ya validada.
type openingStock struct {
	ProductID   string
	WarehouseID string
	Quantity    int64
	UnitCost    *decimal.Decimal
}

// decodeCatalog lee el XML aceptando UTF-8 o ISO-8859-1 (exportaciones de hojas de cálculo).
func decodeCatalog(r io.Reader) (*catalogo, error) {
	var c catalogo
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToUpper(charset) {
		case "ISO-8859-1", "ISO8859-1", "LATIN1":
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		case "WINDOWS-1252", "CP1252":
			return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
		case "UTF-8", "":
			return input, nil
		}
		return nil, fmt.Errorf("charset no soportado: %s", charset)
	}
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decodificar catálogo: %w", err)
	}
	return &c, nil
}

// masterData normaliza espacios y descarta filas sin id.
func (c *catalogo) masterData() postgres.MasterData {
	var md postgres.MasterData
	for _, p := range c.Productos {
		if id := strings.TrimSpace(p.ID); id != "" {
			md.Products = append(md.Products, postgres.Product{ID: id, SKU: strings.TrimSpace(p.SKU), Name: strings.TrimSpace(p.Nombre)})
		}
	}
	for _, b := range c.Bodegas {
		if id := strings.TrimSpace(b.ID); id != "" {
			md.Warehouses = append(md.Warehouses, postgres.Warehouse{ID: id, Name: strings.TrimSpace(b.Nombre)})
		}
	}
	for _, u := range c.Usuarios {
		if id := strings.TrimSpace(u.ID); id != "" {
			md.Users = append(md.Users, postgres.User{ID: id, Email: strings.TrimSpace(u.Email)})
		}
	}
	return md
}

// actor usuario que firma las entradas iniciales: el atributo actor o el primer usuario.
func (c *catalogo) actor() string {
	if a := strings.TrimSpace(c.Actor); a != "" {
		return a
	}
	for _, u := range c.Usuarios {
		if id := strings.TrimSpace(u.ID); id != "" {
			return id
		}
	}
	return ""
}

func (c *catalogo) openingStock() ([]openingStock, error) {
	out := make([]openingStock, 0, len(c.Existencias))
	for i, e := range c.Existencias {
		p, w := strings.TrimSpace(e.Producto), strings.TrimSpace(e.Bodega)
		if p == "" || w == "" {
			return nil, fmt.Errorf("existencia %d: producto y bodega son obligatorios", i+1)
		}
		if e.Cantidad <= 0 {
			return nil, fmt.Errorf("existencia %d (%s/%s): cantidad debe ser positiva", i+1, p, w)
		}
		s := openingStock{ProductID: p, WarehouseID: w, Quantity: e.Cantidad}
		if costo := strings.TrimSpace(e.Costo); costo != "" {
			d, err := decimal.NewFromString(costo)
			if err != nil || d.IsNegative() {
				return nil, fmt.Errorf("existencia %d (%s/%s): costo inválido %q", i+1, p, w, costo)
			}
			s.UnitCost = &d
		}
		out = append(out, s)
	}
	return out, nil
}
