// Package fallback implements the regex-driven invoice text parser used when
// no extraction service is available or the service path fails. It segments
// raw invoice text into supplier, customer, invoice, financial and line-item
// regions using ordered pattern lists.
package fallback

import (
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Record is one parsed invoice row. Every key in Columns is always present;
// fields the text did not yield are empty strings.
type Record map[string]string

// Columns lists every field a Record carries, in output order.
var Columns = []string{
	"qty", "description", "pack", "price", "discount", "vat", "invoice_value",
	"batch", "expiry_date",
	"supplier_name", "supplier_address", "supplier_tel", "supplier_fax", "supplier_email",
	"customer_name", "customer_address",
	"invoice_number", "invoice_date", "po_number",
	"subtotal", "tax", "total",
}

// Parser extracts structured records from invoice text without any external
// service. Construct with NewParser; the zero value is not usable.
type Parser struct {
	cfg Config
	log *slog.Logger

	tel, fax, email         []*regexp.Regexp
	invoiceNo, date, po     []*regexp.Regexp
	subtotal, tax, total    []*regexp.Regexp
	customer, batch, expiry []*regexp.Regexp
	itemHeaders             []*regexp.Regexp
	itemQty                 []*regexp.Regexp

	reItemStart *regexp.Regexp
	reDecimal   *regexp.Regexp
	reVATCode   *regexp.Regexp
}

func NewParser(cfg Config, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		cfg: cfg,
		log: logger,

		tel:       compileAll(cfg.TelephonePatterns, true),
		fax:       compileAll(cfg.FaxPatterns, true),
		email:     compileAll(cfg.EmailPatterns, true),
		invoiceNo: compileAll(cfg.InvoiceNumberPatterns, true),
		date:      compileAll(cfg.DatePatterns, true),
		po:        compileAll(cfg.PONumberPatterns, true),
		subtotal:  compileAll(cfg.SubtotalPatterns, true),
		tax:       compileAll(cfg.TaxPatterns, true),
		total:     compileAll(cfg.TotalPatterns, true),
		customer:  compileAll(cfg.CustomerSectionPatterns, true),
		batch:     compileAll(cfg.BatchPatterns, true),
		expiry:    compileAll(cfg.ExpiryPatterns, true),

		// Header patterns run against upper-cased lines.
		itemHeaders: compileAll(cfg.ItemHeaderPatterns, false),
		itemQty:     compileAll(cfg.ItemQtyPatterns, false),

		reItemStart: regexp.MustCompile(`^\s*\d+`),
		reDecimal:   regexp.MustCompile(`\d+\.\d+`),
		reVATCode:   regexp.MustCompile(`(.*?)\s+([A-Z][0-9A-Z])\s*$`),
	}
}

func compileAll(patterns []string, ignoreCase bool) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if ignoreCase {
			p = "(?i)" + p
		}
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// Parse segments invoice text into one record per detected line item. When no
// items can be isolated it still returns a single record carrying whatever
// header, customer and financial fields matched. Blank input yields nil.
func (p *Parser) Parse(text string) []Record {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lines := strings.Split(strings.TrimSpace(text), "\n")

	supplier := p.supplierInfo(lines)
	customer := p.customerInfo(text, lines)
	details := p.invoiceDetails(text)
	financial := p.financialDetails(text)

	items := p.extractItems(lines)
	if len(items) == 0 {
		// Keep one record so the shared fields survive.
		items = []map[string]string{{}}
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		rec := make(Record, len(Columns))
		for _, col := range Columns {
			rec[col] = ""
		}
		for k, v := range item {
			rec[k] = v
		}
		for k, v := range supplier {
			rec[k] = v
		}
		for k, v := range customer {
			rec[k] = v
		}
		for k, v := range details {
			rec[k] = v
		}
		for k, v := range financial {
			rec[k] = v
		}
		records = append(records, rec)
	}

	p.log.Debug("fallback.parse.ok", "records", len(records), "items", len(items))
	return records
}

func (p *Parser) supplierInfo(lines []string) map[string]string {
	info := map[string]string{}

	n := p.cfg.SupplierHeaderLines
	if n > len(lines) {
		n = len(lines)
	}
	header := make([]string, 0, n)
	for i := 0; i < n; i++ {
		header = append(header, strings.TrimSpace(lines[i]))
	}
	info["supplier_name"] = strings.Join(header, " ")

	start := 0
	if len(lines) > 1 {
		start = 1
	}
	var address []string
	for i := start; i < len(lines) && i < start+p.cfg.AddressMaxLines; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || containsAny(line, []string{"Tel:", "Fax:", "Email:"}) {
			break
		}
		address = append(address, line)
	}
	info["supplier_address"] = strings.Join(address, ", ")

	full := strings.Join(lines, "\n")
	info["supplier_tel"] = firstMatch(full, p.tel)
	info["supplier_fax"] = firstMatch(full, p.fax)
	info["supplier_email"] = firstMatch(full, p.email)
	return info
}

func (p *Parser) customerInfo(text string, lines []string) map[string]string {
	info := map[string]string{
		"customer_name":    "",
		"customer_address": "",
	}

	section := p.customerSection(lines)
	if section == "" {
		section = firstMatch(text, p.customer)
	}
	if section == "" {
		return info
	}

	sectionLines := strings.Split(strings.TrimSpace(section), "\n")
	info["customer_name"] = strings.TrimSpace(sectionLines[0])
	var address []string
	for _, line := range sectionLines[1:] {
		if s := strings.TrimSpace(line); s != "" {
			address = append(address, s)
		}
	}
	info["customer_address"] = strings.Join(address, ", ")
	return info
}

// customerSection isolates the block between the supplier contact details and
// the start of the invoice details. Returns "" when no such span exists.
func (p *Parser) customerSection(lines []string) string {
	supplierEnd := 0
	found := false
	for i, line := range lines {
		if containsAny(line, p.cfg.SupplierSectionEndMarkers) {
			supplierEnd = i + 1
			found = true
			break
		}
	}
	if !found {
		// No contact markers; fall back to the first gap past the header.
		for i, line := range lines {
			if strings.TrimSpace(line) == "" && i > 3 {
				supplierEnd = i + 1
				break
			}
		}
	}

	invoiceStart := len(lines)
	for i := supplierEnd; i < len(lines); i++ {
		if containsAny(lines[i], p.cfg.InvoiceSectionStartMarkers) {
			invoiceStart = i
			break
		}
	}

	if supplierEnd < invoiceStart {
		return strings.TrimSpace(strings.Join(lines[supplierEnd:invoiceStart], "\n"))
	}
	return ""
}

func (p *Parser) invoiceDetails(text string) map[string]string {
	return map[string]string{
		"invoice_number": firstMatch(text, p.invoiceNo),
		"invoice_date":   firstMatch(text, p.date),
		"po_number":      firstMatch(text, p.po),
	}
}

func (p *Parser) financialDetails(text string) map[string]string {
	return map[string]string{
		"subtotal": firstMatch(text, p.subtotal),
		"tax":      firstMatch(text, p.tax),
		"total":    firstMatch(text, p.total),
	}
}

func (p *Parser) extractItems(lines []string) []map[string]string {
	region := p.itemRegion(lines)
	if len(region) == 0 {
		region = p.positionalItemRegion(lines)
	}
	if len(region) == 0 {
		return nil
	}

	var items []map[string]string
	for _, entry := range p.groupEntries(region) {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		if item := p.parseItemEntry(entry); len(item) > 0 {
			items = append(items, item)
		}
	}
	return items
}

type itemRegionState int

const (
	beforeItems itemRegionState = iota
	inItems
	afterItems
)

// itemRegion collects the lines between a recognized column-header line and
// the first totals marker.
func (p *Parser) itemRegion(lines []string) []string {
	state := beforeItems
	var region []string
	for _, line := range lines {
		upper := strings.ToUpper(line)
		switch state {
		case beforeItems:
			if p.isItemHeader(upper) {
				state = inItems
			}
		case inItems:
			if containsAny(upper, p.cfg.ItemSectionEndMarkers) {
				state = afterItems
				continue
			}
			region = append(region, line)
		case afterItems:
		}
	}
	return region
}

func (p *Parser) isItemHeader(upper string) bool {
	for _, re := range p.itemHeaders {
		if re.MatchString(upper) {
			return true
		}
	}
	qty := strings.Contains(upper, "QTY") || strings.Contains(upper, "QUANTITY")
	desc := strings.Contains(upper, "DESCRIPTION") || strings.Contains(upper, "ITEM")
	price := strings.Contains(upper, "PRICE") || strings.Contains(upper, "RATE") || strings.Contains(upper, "AMOUNT")
	return qty && desc && price
}

// positionalItemRegion finds runs of lines that start with a number and carry
// enough tokens to be a plausible line item. A run needs at least two lines.
func (p *Parser) positionalItemRegion(lines []string) []string {
	var current []string
	inRun := false
	for _, line := range lines {
		upper := strings.ToUpper(line)
		if containsAny(upper, p.cfg.ItemSectionEndMarkers) {
			if inRun {
				inRun = false
				if len(current) >= 2 {
					return current
				}
				current = nil
			}
			continue
		}
		if p.reItemStart.MatchString(line) && len(strings.Fields(line)) >= p.cfg.ItemMinTokens {
			inRun = true
			current = append(current, line)
		} else if inRun {
			current = append(current, line)
		}
	}
	if inRun && len(current) >= 2 {
		return current
	}
	return nil
}

// groupEntries splits the item region into per-item entries. A line starting
// with a number opens a new entry unless it is nothing but digits; other lines
// continue the current entry.
func (p *Parser) groupEntries(region []string) []string {
	start := 0
	for i, line := range region {
		if p.matchesAnyHeader(strings.ToUpper(line)) {
			start = i + 1
			break
		}
	}

	var entries []string
	var current []string
	for _, line := range region[start:] {
		trimmed := strings.TrimSpace(line)
		allDigits := trimmed != "" && strings.TrimLeft(trimmed, "0123456789") == ""
		if p.reItemStart.MatchString(line) && !allDigits {
			if len(current) > 0 {
				entries = append(entries, strings.Join(current, "\n"))
			}
			current = []string{line}
		} else if len(current) > 0 {
			current = append(current, line)
		}
	}
	if len(current) > 0 {
		entries = append(entries, strings.Join(current, "\n"))
	}
	return entries
}

func (p *Parser) matchesAnyHeader(upper string) bool {
	for _, re := range p.itemHeaders {
		if re.MatchString(upper) {
			return true
		}
	}
	return false
}

func (p *Parser) parseItemEntry(entry string) map[string]string {
	item := map[string]string{}
	entryLines := strings.Split(strings.TrimSpace(entry), "\n")
	mainLine := strings.TrimSpace(entryLines[0])

	for _, re := range p.itemQty {
		if m := re.FindStringSubmatch(mainLine); m != nil {
			item["qty"] = strings.TrimSpace(m[1])
			break
		}
	}

	if batch, expiry := p.batchAndExpiry(entryLines); batch != "" || expiry != "" {
		if batch != "" {
			item["batch"] = batch
		}
		if expiry != "" {
			item["expiry_date"] = expiry
		}
	}

	if qty, ok := item["qty"]; ok {
		p.priceAndDescription(item, remainingText(mainLine, qty))
	}
	return item
}

// batchAndExpiry scans continuation lines for batch numbers and expiry dates.
func (p *Parser) batchAndExpiry(entryLines []string) (string, string) {
	var batch, expiry string
	for _, line := range entryLines[1:] {
		if batch == "" {
			batch = firstMatch(line, p.batch)
		}
		if expiry == "" {
			expiry = firstMatch(line, p.expiry)
		}
	}
	return batch, expiry
}

// remainingText returns what follows the quantity on the main item line. The
// "qty__description" convention takes precedence over positional slicing.
func remainingText(line, qty string) string {
	if strings.Contains(line, "__") {
		parts := strings.SplitN(line, "__", 2)
		if len(parts) > 1 {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if pos := strings.Index(line, qty); pos >= 0 {
		start := pos + len(qty)
		if start < len(line) {
			return strings.TrimSpace(line[start:])
		}
	}
	return ""
}

// priceAndDescription applies the two-decimal rule: with two or more decimal
// numbers on the line, the second to last is the unit price and the last is
// the line value. A single trailing uppercase letter-plus-alphanumeric token
// between the description and the numbers is treated as a VAT rate code.
func (p *Parser) priceAndDescription(item map[string]string, text string) {
	if text == "" {
		return
	}

	decimals := p.reDecimal.FindAllStringIndex(text, -1)
	switch {
	case len(decimals) >= 2:
		price := decimals[len(decimals)-2]
		value := decimals[len(decimals)-1]
		item["price"] = text[price[0]:price[1]]
		item["invoice_value"] = text[value[0]:value[1]]
		p.setDescription(item, strings.TrimSpace(text[:price[0]]))
	case len(decimals) == 1:
		price := decimals[0]
		item["price"] = text[price[0]:price[1]]
		p.setDescription(item, strings.TrimSpace(text[:price[0]]))
	default:
		p.setDescription(item, text)
	}

	if _, ok := item["invoice_value"]; !ok {
		if qty, hasQty := item["qty"]; hasQty {
			if price, hasPrice := item["price"]; hasPrice {
				q, errQ := strconv.ParseFloat(qty, 64)
				pr, errP := strconv.ParseFloat(strings.ReplaceAll(price, ",", ""), 64)
				if errQ == nil && errP == nil {
					item["invoice_value"] = strconv.FormatFloat(math.Round(q*pr*100)/100, 'f', 2, 64)
				}
			}
		}
	}
}

func (p *Parser) setDescription(item map[string]string, text string) {
	if m := p.reVATCode.FindStringSubmatch(text); m != nil {
		item["description"] = strings.TrimSpace(m[1])
		item["vat"] = m[2]
		return
	}
	item["description"] = text
}

func firstMatch(text string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
