package catalog

import "github.com/DukeRupert/kebaikan/internal/domain"

var defaultCampaign = domain.Campaign{
	ID:       1,
	Title:    "Save Clean Water Access in Tambora",
	Location: "Jakarta, Indonesia",
	Raised:   2109000,
	Target:   5000000,
	DaysLeft: 30,
	Image:    "https://images.pexels.com/photos/6647039/pexels-photo-6647039.jpeg?auto=compress&cs=tinysrgb&w=1200",
	Category: "Environment",
	Description: "In the midst of Jakarta's bustling city life, many residents in the Tambora area still " +
		"struggle to access proper clean water. Your support will help provide clean water tanks at " +
		"strategic locations, build simple water filtration systems, provide daily clean water " +
		"distribution for 500 families, and environmental health and hygiene education.",
	Impact: "Provides clean water access for 500 families in need",
}

var seedCampaigns = []domain.Campaign{
	defaultCampaign,
	{
		ID:       2,
		Title:    "Emergency Relief for Flood Victims",
		Location: "Jakarta, Indonesia",
		Raised:   12500000,
		Target:   25000000,
		DaysLeft: 15,
		Image:    "https://images.pexels.com/photos/6995253/pexels-photo-6995253.jpeg?auto=compress&cs=tinysrgb&w=800",
		Category: "Emergency",
		Description: "Help provide immediate relief to families affected by the devastating floods in Jakarta. " +
			"Your donation will provide food, clean water, temporary shelter, and medical assistance.",
		Impact: "Provides emergency supplies for 100 families affected by floods",
	},
	{
		ID:          3,
		Title:       "Support Children's Health in Rural Areas",
		Location:    "Bandung, Indonesia",
		Raised:      800000,
		Target:      3000000,
		DaysLeft:    25,
		Image:       "https://images.pexels.com/photos/4167541/pexels-photo-4167541.jpeg?auto=compress&cs=tinysrgb&w=800",
		Category:    "Health",
		Description: "Help provide medical checkups and vaccinations for children in remote villages.",
		Impact:      "Improves health for 200 children in rural communities",
	},
	{
		ID:          4,
		Title:       "Education for All: School Supplies Drive",
		Location:    "Surabaya, Indonesia",
		Raised:      1500000,
		Target:      4000000,
		DaysLeft:    20,
		Image:       "https://images.pexels.com/photos/8197530/pexels-photo-8197530.jpeg?auto=compress&cs=tinysrgb&w=800",
		Category:    "Education",
		Description: "Donate to provide books, uniforms, and supplies for children in need.",
		Impact:      "Supports education for 300 students in underserved areas",
	},
	{
		ID:       5,
		Title:    "Help Jakarta Flood Victims",
		Location: "Jakarta, Indonesia",
		Raised:   15000000,
		Target:   25000000,
		DaysLeft: 20,
		Image:    "https://images.pexels.com/photos/6995253/pexels-photo-6995253.jpeg?auto=compress&cs=tinysrgb&w=1200",
		Category: "Emergency",
		Description: "Jakarta is experiencing severe flooding that has affected thousands of families. " +
			"Your donation will help provide emergency relief supplies and support to help families " +
			"get back on their feet.",
		Impact: "Your support helps provide emergency aid to flood victims",
	},
}
