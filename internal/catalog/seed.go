package catalog

// Default returns the reference storefront catalog.
func Default() *Catalog {
	return New([]Product{
		{
			ID:          "p1",
			Title:       "Wireless Headphones",
			Price:       2999,
			Category:    "audio",
			Image:       "🎧",
			Description: "Comfortable wireless headphones with long battery life.",
		},
		{
			ID:          "p2",
			Title:       "Smartphone Stand",
			Price:       499,
			Category:    "accessories",
			Image:       "📱",
			Description: "Portable phone stand for desks and travel.",
		},
		{
			ID:          "p3",
			Title:       "Portable Charger 10,000mAh",
			Price:       1299,
			Category:    "power",
			Image:       "🔋",
			Description: "Lightweight power bank with two USB ports.",
		},
		{
			ID:          "p4",
			Title:       "Bluetooth Speaker",
			Price:       1999,
			Category:    "audio",
			Image:       "🔊",
			Description: "Compact Bluetooth speaker with deep bass and clear sound.",
		},
		{
			ID:          "p5",
			Title:       "USB-C Charging Cable",
			Price:       299,
			Category:    "accessories",
			Image:       "🔌",
			Description: "Durable braided USB-C cable for fast charging.",
		},
		{
			ID:          "p6",
			Title:       "Laptop Stand",
			Price:       899,
			Category:    "accessories",
			Image:       "💻",
			Description: "Ergonomic laptop stand to improve posture.",
		},
		{
			ID:          "p7",
			Title:       "Smartwatch",
			Price:       5499,
			Category:    "wearable",
			Image:       "⌚",
			Description: "Stylish smartwatch with health tracking features.",
		},
		{
			ID:          "p8",
			Title:       "Wireless Mouse",
			Price:       799,
			Category:    "accessories",
			Image:       "🖱️",
			Description: "Ergonomic wireless mouse with long battery life.",
		},
	})
}
