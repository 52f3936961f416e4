package wordlist

import "regexp"

var triggerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^gemeente`),
	regexp.MustCompile(`raad$`),
	regexp.MustCompile(`^raads`),
	regexp.MustCompile(`^wethouder`),
	regexp.MustCompile(`^burgemeester`),
	regexp.MustCompile(`^provincie`),
	regexp.MustCompile(`^gedeputeerde`),
	regexp.MustCompile(`^staten`),
	regexp.MustCompile(`^college`),
	regexp.MustCompile(`^waterschap`),
}

var builtinRegions = []Region{
	{
		Name: "landelijk",
		Words: []string{
			"raad", "gemeenteraad", "raadslid", "raadsleden", "raadsvoorstel", "raadsbesluit",
			"wethouder", "wethouders", "burgemeester", "college", "gemeente", "provincie",
			"gedeputeerde", "statenlid", "provinciale", "staten", "waterschap", "motie", "moties",
			"amendement", "begroting", "subsidie", "subsidies", "bestemmingsplan", "vergunning",
			"omgevingsvergunning", "omgevingsvisie", "inspraak", "referendum", "coalitie", "oppositie",
			"handhaving", "woningbouw", "nieuwbouw", "sociale", "huurwoningen", "jeugdzorg", "wmo",
			"bezuiniging", "bezuinigingen", "parkeerbeleid", "windmolens", "zonnepanelen", "asielzoekers",
			"azc", "opvang", "daklozen", "handhavers", "bodemvervuiling", "stikstof", "verkeersveiligheid",
			"fietspad", "rotonde", "herinrichting", "sloop", "renovatie", "monument", "erfgoed",
		},
		Dynamic: []string{
			`^gemeente`,
			`raad$`,
			`^raads`,
			`^wethouder`,
			`vergunning(en)?$`,
			`^bestemmingsplan`,
			`^subsidie`,
			`^begroting`,
			`beleid$`,
			`^omgevings`,
			`^woning`,
		},
	},
	{
		Name: "utrecht",
		Words: []string{
			"utrecht", "amersfoort", "nieuwegein", "zeist", "veenendaal", "houten", "ijsselstein",
			"woerden", "soest", "leusden", "vianen", "maarssen", "leidsche", "uithof", "catharijnesingel",
			"hoograven", "kanaleneiland", "overvecht", "lunetten",
		},
		Dynamic: []string{`^utrechts`},
	},
	{
		Name: "noord-holland",
		Words: []string{
			"haarlem", "alkmaar", "hilversum", "zaanstad", "hoorn", "purmerend",
			"velsen", "heemskerk", "beverwijk", "bussum", "enkhuizen", "texel", "schagen", "castricum",
			"bloemendaal", "zandvoort", "heiloo",
		},
		Dynamic: []string{`^noordholland`},
	},
	{
		Name: "amsterdam",
		Words: []string{
			"amsterdam", "amsterdamse", "stadsdeel", "oost", "west", "zuidoost", "noord",
			"centrum", "ijburg", "zuidas", "jordaan", "bijlmer", "osdorp", "slotervaart", "amstel",
			"damrak", "dam", "vondelpark", "noordzuidlijn",
		},
		Dynamic: []string{`^stadsde(el|len)`},
	},
	{
		Name: "limburg",
		Words: []string{
			"maastricht", "venlo", "heerlen", "sittard", "geleen", "roermond", "weert", "kerkrade",
			"venray", "brunssum", "landgraaf", "valkenburg",
		},
		Dynamic: []string{`^limburg`},
	},
}
