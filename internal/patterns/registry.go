package patterns

import "regexp"

// The registry is a slice, not a map. Registration order is the
// tie-break when a text matches several categories, so iteration order
// must be stable.
var registry = []Pattern{
	{
		Name:     "amazon",
		Merchant: regexp.MustCompile(`(?i)Amazon\.(?:de|com|co\.uk|fr|it|es)`),
		Amounts: []*regexp.Regexp{
			regexp.MustCompile(`(?i)Gesamtbetrag:\s*([0-9,.]+ €)`),
			regexp.MustCompile(`(?i)Total:\s*\$?([0-9,.]+)`),
			regexp.MustCompile(`(?i)Order Total:\s*([€$£]?[0-9,.]+)`),
			regexp.MustCompile(`(?i)Summe:\s*([0-9,.]+ EUR)`),
			regexp.MustCompile(`(?i)Grand Total:\s*([€$£]?[0-9,.]+)`),
		},
		Dates: []*regexp.Regexp{
			regexp.MustCompile(`(?i)Bestelldatum:\s*(\d{1,2}\.\s*\w+\s*\d{4})`),
			regexp.MustCompile(`(?i)Order Date:\s*(\w+\s+\d{1,2},\s*\d{4})`),
			regexp.MustCompile(`(?i)Bestellung vom\s*(\d{1,2}\.\d{1,2}\.\d{4})`),
		},
		MerchantNames: []*regexp.Regexp{
			regexp.MustCompile(`(?i)Amazon(?:\.(?:de|com|co\.uk|fr|it|es))?`),
		},
		Category: "Online Shopping",
	},
	{
		Name:     "paypal",
		Merchant: regexp.MustCompile(`(?i)paypal`),
		Amounts: []*regexp.Regexp{
			regexp.MustCompile(`(?i)Sie haben\s+([0-9,.]+ [A-Z]{3})\s+gesendet`),
			regexp.MustCompile(`(?i)You sent\s+([A-Z]{3} [0-9,.]+)`),
			regexp.MustCompile(`(?i)Betrag:\s*([0-9,.]+ [A-Z]{3})`),
			regexp.MustCompile(`(?i)Amount:\s*([A-Z]{3} [0-9,.]+)`),
			regexp.MustCompile(`(?i)Total:\s*([€$£]?[0-9,.]+)`),
		},
		Dates: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(\d{1,2}\.\s*\w+\s*\d{4})`),
			regexp.MustCompile(`(?i)(\w+\s+\d{1,2},\s*\d{4})`),
		},
		MerchantNames: []*regexp.Regexp{
			regexp.MustCompile(`(?i)an\s+([^.]+?)\s+gesendet`),
			regexp.MustCompile(`(?i)to\s+([^.]+?)\s+for`),
			regexp.MustCompile(`(?i)Payment to\s+([^.]+)`),
			regexp.MustCompile(`(?i)Zahlung an\s+([^.]+)`),
		},
		Category: "Online Payment",
	},
	{
		Name:     "supermarket",
		Merchant: regexp.MustCompile(`(?i)(REWE|EDEKA|ALDI|LIDL|KAUFLAND|PENNY|NETTO|REAL)`),
		Amounts: []*regexp.Regexp{
			regexp.MustCompile(`(?i)SUMME\s+EUR\s+([0-9,]+)`),
			regexp.MustCompile(`(?i)GESAMT\s*€?\s*([0-9,]+)`),
			regexp.MustCompile(`(?i)Total\s*€?\s*([0-9,]+)`),
			regexp.MustCompile(`(?i)TOTAL\s+([0-9,]+)\s+EUR`),
			regexp.MustCompile(`(?i)ZU ZAHLEN\s*€?\s*([0-9,]+)`),
		},
		Dates: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(\d{2}\.\d{2}\.\d{2,4})\s+\d{2}:\d{2}`),
			regexp.MustCompile(`(?i)Datum:\s*(\d{2}\.\d{2}\.\d{4})`),
		},
		Auxiliary: map[string]*regexp.Regexp{
			"Items":         regexp.MustCompile(`(?i)([A-ZÄÖÜ][a-zäöüß\s]+)\s+[0-9,]+`),
			"PaymentMethod": regexp.MustCompile(`(?i)(EC-KARTE|BARGELD|KREDITKARTE|MAESTRO)`),
		},
		Category: "Lebensmittel",
	},
	{
		Name:     "gasstation",
		Merchant: regexp.MustCompile(`(?i)(SHELL|ARAL|ESSO|TOTAL|BP|STAR|AGIP|Q1)`),
		Amounts: []*regexp.Regexp{
			regexp.MustCompile(`(?i)Gesamt\s*EUR\s*([0-9,]+)`),
			regexp.MustCompile(`(?i)Total\s*€\s*([0-9,]+)`),
			regexp.MustCompile(`(?i)Betrag\s*([0-9,]+ €)`),
			regexp.MustCompile(`(?i)SUMME\s*([0-9,]+)`),
			regexp.MustCompile(`(?i)TOTAL\s+([0-9,]+)\s+EUR`),
		},
		Dates: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(\d{2}\.\d{2}\.\d{4})\s+\d{2}:\d{2}`),
			regexp.MustCompile(`(?i)Datum:\s*(\d{2}\.\d{2}\.\d{4})`),
		},
		Auxiliary: map[string]*regexp.Regexp{
			"FuelType":      regexp.MustCompile(`(?i)(Super|Super\s*Plus|SuperPlus|Diesel|E5|E10|Ultimate)`),
			"Liters":        regexp.MustCompile(`(?i)([0-9,]+)\s*(?:Liter|l)`),
			"PricePerLiter": regexp.MustCompile(`(?i)([0-9,]+)\s*€/l`),
			"PumpNumber":    regexp.MustCompile(`(?i)Säule\s*(\d+)`),
		},
		Category: "Tankstelle",
	},
	{
		Name:     "restaurant",
		Merchant: regexp.MustCompile(`(?i)(Restaurant|Café|Pizzeria|Imbiss|Bar|Bistro|Gaststätte|Wirtshaus)`),
		Amounts: []*regexp.Regexp{
			regexp.MustCompile(`(?i)Gesamt\s*€?\s*([0-9,]+)`),
			regexp.MustCompile(`(?i)Total\s*€?\s*([0-9,]+)`),
			regexp.MustCompile(`(?i)Zu zahlen\s*€?\s*([0-9,]+)`),
			regexp.MustCompile(`(?i)Summe\s*€?\s*([0-9,]+)`),
			regexp.MustCompile(`(?i)TOTAL\s+([0-9,]+)`),
		},
		Dates: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(\d{2}\.\d{2}\.\d{4})\s+\d{2}:\d{2}`),
			regexp.MustCompile(`(?i)Datum:\s*(\d{2}\.\d{2}\.\d{4})`),
		},
		Auxiliary: map[string]*regexp.Regexp{
			"Tips":        regexp.MustCompile(`(?i)Trinkgeld\s*€?\s*([0-9,]+)`),
			"Service":     regexp.MustCompile(`(?i)Service\s*€?\s*([0-9,]+)`),
			"TableNumber": regexp.MustCompile(`(?i)Tisch\s*(\d+)`),
			"Waiter":      regexp.MustCompile(`(?i)Bedienung:\s*([A-Za-z]+)`),
		},
		Category: "Restaurants",
	},
	{
		Name:     "onlineshopping",
		Merchant: regexp.MustCompile(`(?i)(ZALANDO|OTTO|H&M|ZARA|ABOUT YOU|BONPRIX)`),
		Amounts: []*regexp.Regexp{
			regexp.MustCompile(`(?i)Gesamtbetrag:\s*([0-9,.]+ €)`),
			regexp.MustCompile(`(?i)Total:\s*€\s*([0-9,.]+)`),
			regexp.MustCompile(`(?i)Rechnungsbetrag:\s*([0-9,.]+ €)`),
			regexp.MustCompile(`(?i)Zu zahlen:\s*([0-9,.]+ €)`),
		},
		Dates: []*regexp.Regexp{
			regexp.MustCompile(`(?i)Bestelldatum:\s*(\d{2}\.\d{2}\.\d{4})`),
			regexp.MustCompile(`(?i)Rechnungsdatum:\s*(\d{2}\.\d{2}\.\d{4})`),
		},
		Auxiliary: map[string]*regexp.Regexp{
			"OrderNumber": regexp.MustCompile(`(?i)Bestellnummer:\s*([A-Z0-9-]+)`),
			"Shipping":    regexp.MustCompile(`(?i)Versandkosten:\s*([0-9,.]+ €)`),
		},
		Category: "Online Shopping",
	},
	{
		Name:     "pharmacy",
		Merchant: regexp.MustCompile(`(?i)(APOTHEKE|PHARMACY|ROSSMANN|DM|MÜLLER)`),
		Amounts: []*regexp.Regexp{
			regexp.MustCompile(`(?i)SUMME\s*EUR\s*([0-9,]+)`),
			regexp.MustCompile(`(?i)Gesamt\s*€?\s*([0-9,]+)`),
			regexp.MustCompile(`(?i)TOTAL\s*([0-9,]+)`),
		},
		Dates: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(\d{2}\.\d{2}\.\d{4})\s+\d{2}:\d{2}`),
		},
		Auxiliary: map[string]*regexp.Regexp{
			"PrescriptionNumber": regexp.MustCompile(`(?i)Rezept\s*Nr\.?\s*([0-9]+)`),
			"PharmacyNumber":     regexp.MustCompile(`(?i)IK\s*([0-9]+)`),
		},
		Category: "Gesundheit & Drogerie",
	},
	{
		Name:     "fastfood",
		Merchant: regexp.MustCompile(`(?i)(McDONALD|BURGER\s*KING|KFC|SUBWAY|PIZZA\s*HUT|DOMINO)`),
		Amounts: []*regexp.Regexp{
			regexp.MustCompile(`(?i)TOTAL\s*€?\s*([0-9,]+)`),
			regexp.MustCompile(`(?i)Gesamt\s*€?\s*([0-9,]+)`),
			regexp.MustCompile(`(?i)Sum\s*([0-9,]+)`),
		},
		Dates: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(\d{2}\.\d{2}\.\d{4})\s+\d{2}:\d{2}`),
			regexp.MustCompile(`(?i)(\d{2}/\d{2}/\d{4})\s+\d{2}:\d{2}`),
		},
		Auxiliary: map[string]*regexp.Regexp{
			"OrderNumber": regexp.MustCompile(`(?i)Order\s*#?\s*([0-9]+)`),
			"Counter":     regexp.MustCompile(`(?i)Counter\s*(\d+)`),
		},
		Category: "Fast Food",
	},
}

// Detect returns the first registered pattern whose merchant rule
// matches the text, or nil.
func Detect(text string) *Pattern {
	for i := range registry {
		if registry[i].Merchant.MatchString(text) {
			return &registry[i]
		}
	}
	return nil
}

// All returns the registry in registration order.
func All() []Pattern {
	return registry
}
