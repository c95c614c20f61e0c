package provider

// DefaultProviders returns the built-in demo provider list. It is served
// whenever the upstream table endpoint is unreachable or returns a
// malformed payload, so the listing always has something to show.
func DefaultProviders() []Provider {
	return []Provider{
		{
			ID:              "p1",
			Name:            "Rajesh Kumar",
			ProfileImage:    "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=100&h=100&fit=crop&crop=face",
			Services:        []string{"1"}, // Carpenter
			Rating:          4.8,
			TotalReviews:    127,
			LanguagesSpoken: []string{"English", "Hindi"},
			ExperienceYears: 8,
			HourlyRate:      350,
			IsVerified:      true,
			IsOnline:        true,
			DistanceKm:      0.8,
			ETAMinutes:      25,
			Specialties:     []string{"Furniture Repair", "Door Fixing", "Cabinet Work"},
			Bio:             "Experienced carpenter with 8+ years in furniture and door repairs.",
			PhoneNumber:     "+91 9876543210",
		},
		{
			ID:              "p2",
			Name:            "Amit Singh",
			ProfileImage:    "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=100&h=100&fit=crop&crop=face",
			Services:        []string{"1"}, // Carpenter
			Rating:          4.9,
			TotalReviews:    89,
			LanguagesSpoken: []string{"Hindi", "Punjabi"},
			ExperienceYears: 12,
			HourlyRate:      420,
			IsVerified:      true,
			IsOnline:        true,
			DistanceKm:      1.2,
			ETAMinutes:      35,
			Specialties:     []string{"Custom Furniture", "Wood Carving", "Repair Work"},
			Bio:             "Master craftsman specializing in custom wooden furniture and intricate repair work.",
			PhoneNumber:     "+91 9876543211",
		},
		{
			ID:              "p3",
			Name:            "Ravi Electrician",
			ProfileImage:    "https://images.unsplash.com/photo-1560250097-0b93528c311a?w=100&h=100&fit=crop&crop=face",
			Services:        []string{"2"}, // Electrician
			Rating:          4.6,
			TotalReviews:    156,
			LanguagesSpoken: []string{"English", "Hindi", "Tamil"},
			ExperienceYears: 6,
			HourlyRate:      300,
			IsVerified:      true,
			IsOnline:        true,
			DistanceKm:      0.5,
			ETAMinutes:      20,
			Specialties:     []string{"Wiring", "Fan Installation", "Switch Repair"},
			Bio:             "Certified electrician with expertise in residential electrical work.",
			PhoneNumber:     "+91 9876543212",
		},
		{
			ID:              "p4",
			Name:            "Suresh Plumber",
			ProfileImage:    "https://images.unsplash.com/photo-1519085360753-af0119f7cbe7?w=100&h=100&fit=crop&crop=face",
			Services:        []string{"3"}, // Plumber
			Rating:          4.7,
			TotalReviews:    203,
			LanguagesSpoken: []string{"Hindi", "English"},
			ExperienceYears: 10,
			HourlyRate:      280,
			IsVerified:      true,
			IsOnline:        false,
			DistanceKm:      1.5,
			ETAMinutes:      45,
			Specialties:     []string{"Pipe Repair", "Bathroom Fitting", "Water Heater"},
			Bio:             "Professional plumber with 10+ years experience in all plumbing solutions.",
			PhoneNumber:     "+91 9876543213",
		},
		{
			ID:              "p5",
			Name:            "Pandit Sharma",
			ProfileImage:    "https://images.unsplash.com/photo-1582750433449-648ed127bb54?w=100&h=100&fit=crop&crop=face",
			Services:        []string{"4"}, // Pandit
			Rating:          4.9,
			TotalReviews:    78,
			LanguagesSpoken: []string{"Hindi", "Sanskrit", "English"},
			ExperienceYears: 15,
			HourlyRate:      500,
			IsVerified:      true,
			IsOnline:        true,
			DistanceKm:      0.9,
			ETAMinutes:      30,
			Specialties:     []string{"Puja Services", "Astrology", "Vedic Rituals"},
			Bio:             "Experienced pandit for all Hindu religious ceremonies and consultations.",
			PhoneNumber:     "+91 9876543214",
		},
		{
			ID:              "p6",
			Name:            "Cleaning Lady Sunita",
			ProfileImage:    "https://images.unsplash.com/photo-1494790108755-2616b612b786?w=100&h=100&fit=crop&crop=face",
			Services:        []string{"5"}, // Cleaner
			Rating:          4.5,
			TotalReviews:    234,
			LanguagesSpoken: []string{"Hindi", "English"},
			ExperienceYears: 5,
			HourlyRate:      200,
			IsVerified:      true,
			IsOnline:        true,
			DistanceKm:      0.7,
			ETAMinutes:      22,
			Specialties:     []string{"Deep Cleaning", "Regular Maintenance", "Sanitization"},
			Bio:             "Reliable cleaning professional with attention to detail.",
			PhoneNumber:     "+91 9876543215",
		},
	}
}
