package locale

// Screen names.
const (
	ScreenHeader       = "header"
	ScreenSearch       = "search"
	ScreenDashboard    = "dashboard"
	ScreenAdvisor      = "advisor"
	ScreenWebsite      = "website"
	ScreenAchievements = "achievements"
	ScreenToast        = "toast"
)

var dictionaries = map[Locale]map[string]map[string]string{
	English: {
		ScreenHeader: {
			"title":       "InFinsafe",
			"tagline":     "Your shield against financial fraud",
			"placeholder": "Enter name, mobile number, or website",
			"searchBtn":   "Search",
			"emptyQuery":  "Please enter a name, mobile number, or website.",
			"switchLang":  "हिं",
		},
		ScreenSearch: {
			"title":             "Check Financial Advisors & Websites",
			"subtitle":          "Enter advisor name, phone number, or website URL to check fraud risk",
			"placeholder":       "Enter advisor name, phone, or website...",
			"searchBtn":         "Check Now",
			"featureScore":      "Instant Fraud Score",
			"featureScoreDesc":  "Get immediate risk assessment",
			"featureData":       "Real-time Data",
			"featureDataDesc":   "Updated fraud database",
			"featurePoints":     "Earn Points",
			"featurePointsDesc": "Get rewarded for checking",
		},
		ScreenDashboard: {
			"advisor":      "Check Advisor",
			"website":      "Check Website",
			"achievements": "Achievements",
		},
		ScreenAdvisor: {
			"title":              "Check Financial Advisor",
			"subtitle":           "Verify the credibility and fraud risk of financial advisors",
			"placeholder":        "Enter advisor name or phone number",
			"searchBtn":          "Check Advisor",
			"noResults":          "No advisor found with this name or phone number",
			"fraudScore":         "Fraud Score",
			"safeScore":          "SAFE",
			"mediumScore":        "MEDIUM RISK",
			"highScore":          "HIGH RISK",
			"details":            "Advisor Details",
			"suspiciousKeywords": "Suspicious Keywords Found",
			"recentChecks":       "Recent Checks",
		},
		ScreenWebsite: {
			"title":              "Check Website Safety",
			"subtitle":           "Analyze websites for fraud indicators and security risks",
			"placeholder":        "Enter website URL (e.g., example.com)",
			"searchBtn":          "Check Website",
			"noResults":          "Website analysis could not be completed",
			"fraudScore":         "Safety Score",
			"safeScore":          "SAFE",
			"mediumScore":        "SUSPICIOUS",
			"highScore":          "DANGEROUS",
			"details":            "Website Details",
			"suspiciousKeywords": "Red Flags Detected",
			"securityFeatures":   "Security Features",
			"lastChecked":        "Last Checked",
		},
		ScreenAchievements: {
			"title":           "Your Achievements",
			"subtitle":        "Track your progress in fighting financial fraud",
			"totalPoints":     "Total Points",
			"level":           "Level",
			"checksCompleted": "Checks Completed",
			"fraudsPrevented": "Frauds Prevented",
			"progressToNext":  "Progress to Next Level",
			"unlockedBadges":  "Unlocked Badges",
			"lockedBadges":    "Locked Badges",
			"earnPoints":      "Earn points by:",
			"pointsAdvisor":   "Checking advisors (+10 points)",
			"pointsWebsite":   "Checking websites (+15 points)",
			"pointsFraud":     "Detecting fraud (+100 points)",
			"pointsReferral":  "Sharing with friends (+25 points)",
		},
		ScreenToast: {
			"pointsTitle": "🎉 Points Earned!",
			"pointsBody":  "You earned %d points! Total: %d",
			"badgeTitle":  "🏅 New Badge Unlocked!",
			"badgeBody":   "%s %s badge unlocked!",
		},
	},
	Hindi: {
		ScreenHeader: {
			"title":       "InFinsafe",
			"tagline":     "वित्तीय धोखाधड़ी से आपकी ढाल",
			"placeholder": "नाम, मोबाइल नंबर या वेबसाइट दर्ज करें",
			"searchBtn":   "खोजें",
			"emptyQuery":  "कृपया नाम, मोबाइल नंबर या वेबसाइट दर्ज करें।",
			"switchLang":  "EN",
		},
		ScreenSearch: {
			"title":             "वित्तीय सलाहकार और वेबसाइट जांचें",
			"subtitle":          "धोखाधड़ी के जोखिम की जांच के लिए सलाहकार का नाम, फोन नंबर या वेबसाइट URL दर्ज करें",
			"placeholder":       "सलाहकार का नाम, फोन या वेबसाइट दर्ज करें...",
			"searchBtn":         "अभी जांचें",
			"featureScore":      "तत्काल धोखाधड़ी स्कोर",
			"featureScoreDesc":  "तुरंत जोखिम मूल्यांकन प्राप्त करें",
			"featureData":       "रियल-टाइम डेटा",
			"featureDataDesc":   "अद्यतन धोखाधड़ी डेटाबेस",
			"featurePoints":     "अंक अर्जित करें",
			"featurePointsDesc": "जांच के लिए पुरस्कृत हों",
		},
		ScreenDashboard: {
			"advisor":      "सलाहकार जांचें",
			"website":      "वेबसाइट जांचें",
			"achievements": "उपलब्धियां",
		},
		ScreenAdvisor: {
			"title":              "वित्तीय सलाहकार जांचें",
			"subtitle":           "वित्तीय सलाहकारों की विश्वसनीयता और धोखाधड़ी के जोखिम की पुष्टि करें",
			"placeholder":        "सलाहकार का नाम या फोन नंबर दर्ज करें",
			"searchBtn":          "सलाहकार जांचें",
			"noResults":          "इस नाम या फोन नंबर के साथ कोई सलाहकार नहीं मिला",
			"fraudScore":         "धोखाधड़ी स्कोर",
			"safeScore":          "सुरक्षित",
			"mediumScore":        "मध्यम जोखिम",
			"highScore":          "उच्च जोखिम",
			"details":            "सलाहकार विवरण",
			"suspiciousKeywords": "संदिग्ध कीवर्ड मिले",
			"recentChecks":       "हाल की जांच",
		},
		ScreenWebsite: {
			"title":              "वेबसाइट सुरक्षा जांचें",
			"subtitle":           "धोखाधड़ी संकेतकों और सुरक्षा जोखिमों के लिए वेबसाइटों का विश्लेषण करें",
			"placeholder":        "वेबसाइट URL दर्ज करें (जैसे example.com)",
			"searchBtn":          "वेबसाइट जांचें",
			"noResults":          "वेबसाइट विश्लेषण पूरा नहीं हो सका",
			"fraudScore":         "सुरक्षा स्कोर",
			"safeScore":          "सुरक्षित",
			"mediumScore":        "संदिग्ध",
			"highScore":          "खतरनाक",
			"details":            "वेबसाइट विवरण",
			"suspiciousKeywords": "लाल झंडे का पता चला",
			"securityFeatures":   "सुरक्षा सुविधाएं",
			"lastChecked":        "पिछली बार जांची गई",
		},
		ScreenAchievements: {
			"title":           "आपकी उपलब्धियां",
			"subtitle":        "वित्तीय धोखाधड़ी से लड़ने में अपनी प्रगति को ट्रैक करें",
			"totalPoints":     "कुल अंक",
			"level":           "स्तर",
			"checksCompleted": "जांच पूरी की",
			"fraudsPrevented": "धोखाधड़ी रोकी",
			"progressToNext":  "अगले स्तर तक प्रगति",
			"unlockedBadges":  "अनलॉक किए गए बैज",
			"lockedBadges":    "लॉक किए गए बैज",
			"earnPoints":      "अंक अर्जित करें:",
			"pointsAdvisor":   "सलाहकारों की जांच करके (+10 अंक)",
			"pointsWebsite":   "वेबसाइटों की जांच करके (+15 अंक)",
			"pointsFraud":     "धोखाधड़ी का पता लगाकर (+100 अंक)",
			"pointsReferral":  "दोस्तों के साथ साझा करके (+25 अंक)",
		},
		ScreenToast: {
			"pointsTitle": "🎉 अंक अर्जित!",
			"pointsBody":  "आपने %d अंक अर्जित किए! कुल: %d",
			"badgeTitle":  "🏅 नया बैज अनलॉक!",
			"badgeBody":   "%s %s बैज अनलॉक!",
		},
	},
}

type badgeText struct {
	emoji string
	name  map[Locale]string
	desc  map[Locale]string
}

var badges = map[string]badgeText{
	"smart_starter": {"🕵️",
		map[Locale]string{English: "Smart Starter", Hindi: "स्मार्ट शुरुआत"},
		map[Locale]string{English: "Completed first fraud check", Hindi: "पहली धोखाधड़ी जांच पूरी की"}},
	"alert_investor": {"🛡️",
		map[Locale]string{English: "Alert Investor", Hindi: "सतर्क निवेशक"},
		map[Locale]string{English: "Detected a fraudulent advisor", Hindi: "एक धोखेबाज़ सलाहकार का पता लगाया"}},
	"fraud_buster": {"🔍",
		map[Locale]string{English: "Fraud Buster", Hindi: "धोखाधड़ी बस्टर"},
		map[Locale]string{English: "Completed 25 security checks", Hindi: "25 सुरक्षा जांच पूरी की"}},
	"security_champion": {"🏆",
		map[Locale]string{English: "Security Champion", Hindi: "सुरक्षा चैंपियन"},
		map[Locale]string{English: "Helped protect 5 people from fraud", Hindi: "5 लोगों को धोखाधड़ी से बचाने में मदद की"}},
	"fraud_detective": {"🕵️‍♀️",
		map[Locale]string{English: "Fraud Detective", Hindi: "धोखाधड़ी जासूस"},
		map[Locale]string{English: "Found 10 suspicious websites", Hindi: "10 संदिग्ध वेबसाइटें मिलीं"}},
	"guardian_angel": {"👼",
		map[Locale]string{English: "Guardian Angel", Hindi: "संरक्षक देवदूत"},
		map[Locale]string{English: "Prevented frauds worth ₹1,00,000+", Hindi: "₹1,00,000+ की धोखाधड़ी रोकी"}},
}
