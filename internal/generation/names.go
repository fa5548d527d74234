package generation

import "frontier.dev/internal/models"

const (
	nameLengthMax         = 22
	middleNameProbability = 0.2
)

var lastNames = []string{
	"Adams", "Allen", "Anderson", "Bailey", "Baker", "Barnes", "Bell", "Bennett", "Brooks", "Brown",
	"Butler", "Campbell", "Carter", "Clark", "Collins", "Cook", "Cooper", "Davis", "Dixon", "Edwards",
	"Evans", "Fisher", "Ford", "Foster", "Garcia", "Gray", "Green", "Hall", "Harris", "Hayes",
	"Hill", "Howard", "Hughes", "Jackson", "James", "Johnson", "Jones", "Kelly", "King", "Lee",
	"Lewis", "Marshall", "Martin", "Mason", "Miller", "Mitchell", "Moore", "Morgan", "Murphy", "Nelson",
	"Parker", "Perry", "Phillips", "Porter", "Reed", "Roberts", "Rogers", "Ross", "Scott", "Smith",
	"Stewart", "Taylor", "Thomas", "Turner", "Walker", "Ward", "Watson", "White", "Wilson", "Young",
}

var femaleNames = []string{
	"Alice", "Alma", "Ann", "Anna", "Beatrice", "Bertha", "Betty", "Carol", "Charlotte", "Clara",
	"Dolores", "Dorothy", "Edith", "Edna", "Eleanor", "Elizabeth", "Ellen", "Elsie", "Emma", "Esther",
	"Ethel", "Eva", "Florence", "Frances", "Grace", "Hazel", "Helen", "Ida", "Irene", "Jane",
	"Josephine", "Julia", "June", "Laura", "Lillian", "Louise", "Margaret", "Martha", "Mary", "Mildred",
	"Rose", "Ruby", "Ruth", "Sarah", "Thelma", "Virginia",
}

var maleNames = []string{
	"Albert", "Alfred", "Arthur", "Benjamin", "Bernard", "Charles", "Clarence", "Clyde", "Daniel", "David",
	"Earl", "Edward", "Ernest", "Eugene", "Floyd", "Francis", "Frank", "Frederick", "George", "Harold",
	"Harry", "Henry", "Herbert", "Herman", "Howard", "Jack", "Jacob", "James", "Jesse", "John",
	"Joseph", "Lawrence", "Leonard", "Lester", "Lloyd", "Louis", "Martin", "Nathan", "Oscar", "Patrick",
	"Ralph", "Raymond", "Robert", "Samuel", "Thomas", "Walter", "William", "Willie",
}

// RandomName draws a first name matching the gender, an optional middle
// initial and a last name
func RandomName(rng *RNG, gender models.Gender) string {
	first := maleNames
	switch gender {
	case models.GenderFemale:
		first = femaleNames
	case models.GenderNonBinary:
		if rng.Bernoulli(0.5) {
			first = femaleNames
		}
	}

	for {
		name := rng.Choice(first) + " "
		if rng.Bernoulli(middleNameProbability) {
			name += string(rune('A'+rng.Intn(26))) + ". "
		}
		name += rng.Choice(lastNames)
		if len(name) <= nameLengthMax {
			return name
		}
	}
}
