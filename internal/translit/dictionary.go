package translit

// pair maps an English key to its Romanized-Hindi rendering. Conversion in
// either direction walks these tables longest-key-first so overlapping
// entries ("what is your name" vs "what is") resolve to the longest match.
type pair struct {
	En string
	Hi string
}

// phrases are multi-word entries, matched before single words.
var phrases = []pair{
	{"what is your name", "aapka naam kya hai"},
	{"how are you", "aap kaise hain"},
	{"i don't know", "mujhe nahi pata"},
	{"do you know", "kya aap jante hain"},
	{"nice to meet you", "aapse milkar khushi hui"},
	{"good morning", "suprabhat"},
	{"good night", "shubh ratri"},
	{"thank you", "dhanyavad"},
	{"you're welcome", "koi baat nahi"},
	{"of course", "bilkul"},
	{"very good", "bahut acha"},
	{"tell me", "mujhe batao"},
	{"what is", "kya hai"},
	{"there is", "wahan hai"},
	{"i am", "main hoon"},
	{"you are", "aap hain"},
	{"can you", "kya aap"},
	{"my name is", "mera naam hai"},
}

// words are single-word entries.
var words = []pair{
	{"what", "kya"},
	{"how", "kaise"},
	{"why", "kyun"},
	{"when", "kab"},
	{"where", "kahan"},
	{"who", "kaun"},
	{"yes", "haan"},
	{"no", "nahi"},
	{"not", "nahi"},
	{"and", "aur"},
	{"but", "lekin"},
	{"you", "aap"},
	{"i", "main"},
	{"me", "mujhe"},
	{"my", "mera"},
	{"your", "aapka"},
	{"is", "hai"},
	{"name", "naam"},
	{"water", "paani"},
	{"food", "khana"},
	{"house", "ghar"},
	{"friend", "dost"},
	{"love", "pyar"},
	{"day", "din"},
	{"night", "raat"},
	{"good", "acha"},
	{"bad", "bura"},
	{"big", "bada"},
	{"small", "chota"},
	{"help", "madad"},
	{"work", "kaam"},
	{"know", "pata"},
	{"understand", "samajh"},
	{"learn", "seekho"},
	{"teach", "sikhao"},
	{"question", "sawal"},
	{"answer", "jawab"},
	{"word", "shabd"},
	{"words", "shabd"},
	{"number", "sankhya"},
	{"count", "ginti"},
	{"please", "kripya"},
	{"thanks", "shukriya"},
	{"time", "samay"},
	{"today", "aaj"},
	{"tomorrow", "kal"},
	{"now", "abhi"},
	{"here", "yahan"},
	{"there", "wahan"},
	{"this", "yeh"},
	{"that", "woh"},
	{"all", "sab"},
	{"some", "kuch"},
	{"more", "zyada"},
	{"less", "kam"},
	{"very", "bahut"},
	{"new", "naya"},
	{"old", "purana"},
	{"book", "kitab"},
	{"money", "paisa"},
	{"people", "log"},
	{"country", "desh"},
	{"world", "duniya"},
	{"language", "bhasha"},
	{"friendship", "dosti"},
	{"life", "zindagi"},
	{"heart", "dil"},
	{"remember", "yaad"},
	{"difficult", "mushkil"},
	{"easy", "aasan"},
	{"correct", "sahi"},
	{"wrong", "galat"},
}

// technicalTerms stay untouched when PreserveTechnicalTerms is set. These
// are loanwords normally spoken as-is in Hinglish.
var technicalTerms = map[string]bool{
	"computer": true, "api": true, "internet": true, "software": true,
	"hardware": true, "mobile": true, "email": true, "server": true,
	"database": true, "code": true, "programming": true, "website": true,
	"password": true, "file": true, "network": true, "online": true,
}
