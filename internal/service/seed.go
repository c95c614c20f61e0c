package service

// DefaultServices returns the seed catalog used when no upstream data is
// available. Prices are in rupees, durations in minutes.
func DefaultServices() []Service {
	return []Service{
		{
			ID:              "1",
			NameEN:          "Carpenter",
			NameHI:          "बढ़ई",
			Category:        "carpenter",
			DescriptionEN:   "Furniture repair, door/window fixing, wooden work",
			DescriptionHI:   "फर्नीचर की मरम्मत, दरवाजा/खिड़की ठीक करना, लकड़ी का काम",
			BasePrice:       299,
			DurationMinutes: 60,
			IsActive:        true,
			Icon:            "fas fa-hammer",
		},
		{
			ID:              "2",
			NameEN:          "Electrician",
			NameHI:          "बिजलीवाला",
			Category:        "electrician",
			DescriptionEN:   "Wiring, switch/socket repair, appliance installation",
			DescriptionHI:   "वायरिंग, स्विच/सॉकेट की मरम्मत, उपकरण स्थापना",
			BasePrice:       249,
			DurationMinutes: 45,
			IsActive:        true,
			Icon:            "fas fa-bolt",
		},
		{
			ID:              "3",
			NameEN:          "Plumber",
			NameHI:          "नलकार",
			Category:        "plumber",
			DescriptionEN:   "Pipe leakage, tap repair, bathroom fixtures",
			DescriptionHI:   "पाइप लीकेज, नल की मरम्मत, बाथरूम फिक्स्चर",
			BasePrice:       199,
			DurationMinutes: 60,
			IsActive:        true,
			Icon:            "fas fa-wrench",
		},
		{
			ID:              "4",
			NameEN:          "Pandit",
			NameHI:          "पंडित",
			Category:        "pandit",
			DescriptionEN:   "Puja ceremonies, religious rituals, astrology consultation",
			DescriptionHI:   "पूजा समारोह, धार्मिक अनुष्ठान, ज्योतिष परामर्श",
			BasePrice:       501,
			DurationMinutes: 120,
			IsActive:        true,
			Icon:            "fas fa-pray",
		},
		{
			ID:              "5",
			NameEN:          "House Cleaner",
			NameHI:          "घर सफाई करने वाला",
			Category:        "cleaner",
			DescriptionEN:   "Deep cleaning, regular cleaning, sanitization",
			DescriptionHI:   "गहरी सफाई, नियमित सफाई, कीटाणुशोधन",
			BasePrice:       149,
			DurationMinutes: 90,
			IsActive:        true,
			Icon:            "fas fa-broom",
		},
		{
			ID:              "6",
			NameEN:          "Painter",
			NameHI:          "रंगसाज़",
			Category:        "painter",
			DescriptionEN:   "Wall painting, touch-up work, interior painting",
			DescriptionHI:   "दीवार पेंटिंग, टच-अप का काम, इंटीरियर पेंटिंग",
			BasePrice:       399,
			DurationMinutes: 180,
			IsActive:        true,
			Icon:            "fas fa-paint-roller",
		},
		{
			ID:              "7",
			NameEN:          "AC Technician",
			NameHI:          "एसी तकनीशियन",
			Category:        "appliance_repair",
			DescriptionEN:   "AC installation, repair, maintenance, gas refill",
			DescriptionHI:   "एसी स्थापना, मरम्मत, रखरखाव, गैस रिफिल",
			BasePrice:       299,
			DurationMinutes: 90,
			IsActive:        true,
			Icon:            "fas fa-snowflake",
		},
		{
			ID:              "8",
			NameEN:          "Pest Control",
			NameHI:          "कीट नियंत्रण",
			Category:        "pest_control",
			DescriptionEN:   "Cockroach, ant, termite treatment, general pest control",
			DescriptionHI:   "तिलचट्टा, चींटी, दीमक उपचार, सामान्य कीट नियंत्रण",
			BasePrice:       499,
			DurationMinutes: 120,
			IsActive:        true,
			Icon:            "fas fa-bug",
		},
		{
			ID:              "9",
			NameEN:          "Gardener",
			NameHI:          "माली",
			Category:        "gardening",
			DescriptionEN:   "Plant care, lawn mowing, garden maintenance",
			DescriptionHI:   "पौधों की देखभाल, लॉन काटना, बगीचे का रखरखाव",
			BasePrice:       199,
			DurationMinutes: 90,
			IsActive:        true,
			Icon:            "fas fa-seedling",
		},
		{
			ID:              "10",
			NameEN:          "Security Guard",
			NameHI:          "सिक्योरिटी गार्ड",
			Category:        "security",
			DescriptionEN:   "Event security, home security, personal protection",
			DescriptionHI:   "इवेंट सिक्योरिटी, घर की सुरक्षा, व्यक्तिगत सुरक्षा",
			BasePrice:       799,
			DurationMinutes: 480,
			IsActive:        true,
			Icon:            "fas fa-shield-alt",
		},
	}
}

// Display metadata per category. Unknown categories fall back to the raw
// category ID and a generic icon.
var (
	categoryNamesEN = map[string]string{
		"carpenter":        "Carpentry",
		"electrician":      "Electrical",
		"plumber":          "Plumbing",
		"pandit":           "Religious Services",
		"cleaner":          "Cleaning",
		"painter":          "Painting",
		"appliance_repair": "Appliance Repair",
		"pest_control":     "Pest Control",
		"gardening":        "Gardening",
		"security":         "Security",
	}

	categoryNamesHI = map[string]string{
		"carpenter":        "बढ़ईगिरी",
		"electrician":      "बिजली का काम",
		"plumber":          "नलसाजी",
		"pandit":           "धार्मिक सेवाएं",
		"cleaner":          "सफाई",
		"painter":          "पेंटिंग",
		"appliance_repair": "उपकरण मरम्मत",
		"pest_control":     "कीट नियंत्रण",
		"gardening":        "बागवानी",
		"security":         "सुरक्षा",
	}

	categoryIcons = map[string]string{
		"carpenter":        "fas fa-hammer",
		"electrician":      "fas fa-bolt",
		"plumber":          "fas fa-wrench",
		"pandit":           "fas fa-pray",
		"cleaner":          "fas fa-broom",
		"painter":          "fas fa-paint-roller",
		"appliance_repair": "fas fa-tools",
		"pest_control":     "fas fa-bug",
		"gardening":        "fas fa-seedling",
		"security":         "fas fa-shield-alt",
	}
)

// categoryFor builds the display record for a category ID.
func categoryFor(id string) Category {
	c := Category{ID: id, NameEN: id, NameHI: id, Icon: "fas fa-cog"}
	if name, ok := categoryNamesEN[id]; ok {
		c.NameEN = name
	}
	if name, ok := categoryNamesHI[id]; ok {
		c.NameHI = name
	}
	if icon, ok := categoryIcons[id]; ok {
		c.Icon = icon
	}
	return c
}
