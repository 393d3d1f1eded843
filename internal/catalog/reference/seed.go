// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

// # Seed Data

// SeedGenres is the initial genre vocabulary.
var SeedGenres = []string{
	"Action", "Adventure", "Apocalypse", "Comedy", "Cyberpunk", "Detective", "Drama", "Fairy Tale",
	"Fantasy", "Gothic", "Harem", "History", "Horror", "Josei", "Kodomo", "Maho Kanojo",
	"Maho Shoujo", "Maho Shounen", "Mecha", "Post-apocalypse", "Romance", "School Life", "Sci-fi",
	"Seinen", "Sentai", "Shotacon", "Shoujo", "Shoujo Ai", "Shounen", "Shounen Ai", "Slice of Life",
	"Steampunk", "Western", "Yaoi", "Yuri",
}

// SeedTags is the initial tag vocabulary.
var SeedTags = []string{
	"Alchemy", "Angels", "Antihero", "Dystopia", "Aristocracy", "Army", "Artifacts", "Gods",
	"Sword Fights", "Power Struggle", "Future", "In Color", "Web", "Video Games", "Demon Lord",
	"Magical Creatures", "Memories from Another World", "Survival", "Harem", "Female Protagonist",
	"Overpowered Protagonist", "Male Protagonist", "Non-Human Protagonist", "Guilds", "Maids",
	"Gyaru", "Demons", "Friendship", "Slice of Life", "Cruel World", "Animal Companions", "Beastmen",
	"Zombies", "Game Elements", "Isekai", "Space", "Crime", "Cooking", "Cultivation", "Magic Academy",
	"Magic", "Medicine", "Revenge", "Monsters", "Music", "Skills", "Mercenaries",
	"Violence / Cruelty", "Undead", "Ninja", "Reverse Harem", "Office Workers", "Parody", "Dungeons",
	"Politics", "Police", "Time Travel", "Intelligent Races", "Power Levels", "Reincarnation",
	"Robots", "Knights", "Samurai", "System", "Identity Concealment", "World Saving", "Medieval",
	"Steampunk", "Superheroes", "Traditional Games", "Dumb Protagonist", "Smart Protagonist",
	"Territory Management", "Educational Institution", "Teacher / Student",
}

// SeedCategories lists the publication formats.
var SeedCategories = []string{
	"Manga", "Manhua", "Manhwa", "Comics", "Web", "Other",
}

// SeedCountries lists countries of origin.
var SeedCountries = []string{
	"Afghanistan", "Albania", "Algeria", "Andorra", "Angola", "Antigua and Barbuda", "Argentina",
	"Armenia", "Australia", "Austria", "Azerbaijan", "Bahamas", "Bahrain", "Bangladesh", "Barbados",
	"Belarus", "Belgium", "Belize", "Benin", "Bhutan", "Bolivia", "Bosnia and Herzegovina",
	"Botswana", "Brazil", "Brunei", "Bulgaria", "Burkina Faso", "Burundi", "Cabo Verde", "Cambodia",
	"Cameroon", "Canada", "Central African Republic", "Chad", "Chile", "China", "Colombia", "Comoros",
	"Congo (Brazzaville)", "Congo (Kinshasa)", "Costa Rica", "Cote d'Ivoire", "Croatia", "Cuba",
	"Cyprus", "Czech Republic", "Denmark", "Djibouti", "Dominica", "Dominican Republic", "Ecuador",
	"Egypt", "El Salvador", "Equatorial Guinea", "Eritrea", "Estonia", "Eswatini", "Ethiopia", "Fiji",
	"Finland", "France", "Gabon", "Gambia", "Georgia", "Germany", "Ghana", "Greece", "Grenada",
	"Guatemala", "Guinea", "Guinea-Bissau", "Guyana", "Haiti", "Honduras", "Hungary", "Iceland",
	"India", "Indonesia", "Iran", "Iraq", "Ireland", "Israel", "Italy", "Jamaica", "Japan", "Jordan",
	"Kazakhstan", "Kenya", "Kiribati", "Korea, North", "Korea, South", "Kosovo", "Kuwait",
	"Kyrgyzstan", "Laos", "Latvia", "Lebanon", "Lesotho", "Liberia", "Libya", "Liechtenstein",
	"Lithuania", "Luxembourg", "Madagascar", "Malawi", "Malaysia", "Maldives", "Mali", "Malta",
	"Marshall Islands", "Mauritania", "Mauritius", "Mexico", "Micronesia", "Moldova", "Monaco",
	"Mongolia", "Montenegro", "Morocco", "Mozambique", "Myanmar", "Namibia", "Nauru", "Nepal",
	"Netherlands", "New Zealand", "Nicaragua", "Niger", "Nigeria", "North Macedonia", "Norway",
	"Oman", "Pakistan", "Palau", "Palestine", "Panama", "Papua New Guinea", "Paraguay", "Peru",
	"Philippines", "Poland", "Portugal", "Qatar", "Romania", "Russia", "Rwanda",
	"Saint Kitts and Nevis", "Saint Lucia", "Saint Vincent and the Grenadines", "Samoa", "San Marino",
	"Sao Tome and Principe", "Saudi Arabia", "Senegal", "Serbia", "Seychelles", "Sierra Leone",
	"Singapore", "Slovakia", "Slovenia", "Solomon Islands", "Somalia", "South Africa", "South Sudan",
	"Spain", "Sri Lanka", "Sudan", "Suriname", "Sweden", "Switzerland", "Syria", "Taiwan",
	"Tajikistan", "Tanzania", "Thailand", "Timor-Leste", "Togo", "Tonga", "Trinidad and Tobago",
	"Tunisia", "Turkey", "Turkmenistan", "Tuvalu", "Uganda", "Ukraine", "United Arab Emirates",
	"United Kingdom", "United States", "Uruguay", "Uzbekistan", "Vanuatu", "Vatican City",
	"Venezuela", "Vietnam", "Yemen", "Zambia", "Zimbabwe",
}
