package catalog

var defaultEntries = map[CropType][]DiseaseRecord{
	Tomato: {
		{
			Name:  "Early Blight",
			Cause: "Fungal infection caused by Alternaria solani",
			Symptoms: []string{
				"Dark brown spots with concentric rings",
				"Yellowing of older leaves",
				"Leaf wilting and dropping",
			},
			Treatment: []string{
				"Apply copper-based fungicides",
				"Remove infected leaves immediately",
				"Ensure proper air circulation",
			},
			Prevention: []string{
				"Rotate crops annually",
				"Water at soil level, avoid wetting leaves",
				"Maintain proper plant spacing",
			},
		},
		{
			Name:  "Late Blight",
			Cause: "Oomycete pathogen Phytophthora infestans",
			Symptoms: []string{
				"Water-soaked lesions on leaves",
				"White mold on leaf undersides",
				"Rapid plant collapse in humid conditions",
			},
			Treatment: []string{
				"Apply systemic fungicides immediately",
				"Remove and destroy infected plants",
				"Improve drainage",
			},
			Prevention: []string{
				"Use resistant varieties",
				"Avoid overhead irrigation",
				"Monitor weather for high humidity",
			},
		},
	},
	Maize: {
		{
			Name:  "Northern Corn Leaf Blight",
			Cause: "Fungus Exserohilum turcicum",
			Symptoms: []string{
				"Long, elliptical gray-green lesions",
				"Lesions may merge causing large blighted areas",
				"Reduced photosynthesis",
			},
			Treatment: []string{
				"Apply triazole fungicides",
				"Remove crop residue after harvest",
				"Use hybrid resistant varieties",
			},
			Prevention: []string{
				"Plant resistant hybrids",
				"Crop rotation with non-host crops",
				"Timely planting to avoid peak disease period",
			},
		},
	},
	Cotton: {
		{
			Name:  "Cotton Leaf Curl Disease",
			Cause: "Whitefly-transmitted virus",
			Symptoms: []string{
				"Upward or downward curling of leaves",
				"Thickening of veins",
				"Stunted plant growth",
			},
			Treatment: []string{
				"Control whitefly population with insecticides",
				"Remove and destroy infected plants",
				"Use virus-free planting material",
			},
			Prevention: []string{
				"Plant resistant varieties",
				"Control whitefly vectors",
				"Remove alternate hosts nearby",
			},
		},
	},
	Rice: {
		{
			Name:  "Bacterial Leaf Blight",
			Cause: "Bacterium Xanthomonas oryzae",
			Symptoms: []string{
				"Water-soaked lesions on leaf tips",
				"Yellow to white lesions with wavy margins",
				"Wilting of seedlings",
			},
			Treatment: []string{
				"Apply copper-based bactericides",
				"Remove infected plants",
				"Drain and dry fields temporarily",
			},
			Prevention: []string{
				"Use resistant varieties",
				"Avoid excess nitrogen fertilizer",
				"Maintain proper water management",
			},
		},
	},
	Wheat: {
		{
			Name:  "Wheat Rust",
			Cause: "Fungal pathogen (Puccinia species)",
			Symptoms: []string{
				"Orange to red-brown pustules on leaves",
				"Yellow halos around pustules",
				"Premature leaf death",
			},
			Treatment: []string{
				"Apply fungicides at early detection",
				"Remove volunteer wheat plants",
				"Improve field sanitation",
			},
			Prevention: []string{
				"Use rust-resistant varieties",
				"Monitor fields regularly",
				"Plant at recommended times",
			},
		},
	},
	Potato: {
		{
			Name:  "Potato Late Blight",
			Cause: "Oomycete Phytophthora infestans",
			Symptoms: []string{
				"Dark water-soaked lesions on leaves",
				"White fungal growth on undersides",
				"Brown to black stem lesions",
			},
			Treatment: []string{
				"Apply systemic fungicides",
				"Hill up soil around plants",
				"Harvest tubers promptly",
			},
			Prevention: []string{
				"Use certified disease-free seed",
				"Avoid overhead irrigation",
				"Maintain good drainage",
			},
		},
	},
}
