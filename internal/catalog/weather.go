package catalog

type WeatherDef struct {
	Mood        WeatherMood
	Name        string
	Emoji       string
	Description string
	// TempMin and TempMax bound the display temperature, both inclusive.
	TempMin     int
	TempMax     int
	Keywords    []string
	Suggestions []string
}

// weathers is in classification priority order.
var weathers = []WeatherDef{
	{
		Mood:        MoodSunny,
		Name:        "晴朗",
		Emoji:       "☀️",
		Description: "心情愉悦，充满活力",
		TempMin:     20,
		TempMax:     28,
		Keywords:    []string{"开心", "快乐", "兴奋", "满足", "愉快", "高兴", "喜悦", "舒畅", "轻松", "美好"},
		Suggestions: []string{
			"保持这份美好的心情，做些让自己开心的事情吧！",
			"今天是个好日子，不妨出去走走，感受阳光的温暖。",
			"心情这么好，可以尝试一些新的活动或挑战。",
		},
	},
	{
		Mood:        MoodCloudy,
		Name:        "多云",
		Emoji:       "☁️",
		Description: "心情平静，有些思考",
		TempMin:     15,
		TempMax:     22,
		Keywords:    []string{"平静", "思考", "沉思", "安静", "淡然", "普通", "一般", "还好", "无聊", "迷茫"},
		Suggestions: []string{
			"平静的心情也很珍贵，可以用这个时间思考和规划。",
			"不妨读本书或听听音乐，享受这份宁静。",
			"适合做一些需要专注的事情，比如整理或学习。",
		},
	},
	{
		Mood:        MoodRainy,
		Name:        "雨天",
		Emoji:       "🌧️",
		Description: "心情低落，需要关怀",
		TempMin:     8,
		TempMax:     16,
		Keywords:    []string{"难过", "伤心", "沮丧", "失落", "孤独", "疲惫", "累", "烦躁", "郁闷", "不开心"},
		Suggestions: []string{
			"每个人都会有低落的时候，给自己一些温柔和耐心。",
			"可以尝试和信任的朋友聊聊，或者做些让自己舒服的事。",
			"记住这只是暂时的，明天又是新的一天。",
		},
	},
	{
		Mood:        MoodStormy,
		Name:        "暴风雨",
		Emoji:       "⛈️",
		Description: "情绪激烈，需要宣泄",
		TempMin:     5,
		TempMax:     12,
		Keywords:    []string{"愤怒", "生气", "焦虑", "紧张", "压力", "崩溃", "烦恼", "痛苦", "绝望", "混乱"},
		Suggestions: []string{
			"强烈的情绪需要被看见和理解，不要压抑自己。",
			"可以通过运动、写作或其他方式来释放这些情绪。",
			"如果感觉太难受，记得寻求专业帮助或朋友支持。",
		},
	},
}

// Weathers returns the weather categories in classification priority order.
func Weathers() []WeatherDef {
	out := make([]WeatherDef, len(weathers))
	copy(out, weathers)
	return out
}

func Weather(m WeatherMood) (WeatherDef, bool) {
	for _, w := range weathers {
		if w.Mood == m {
			return w, true
		}
	}
	return WeatherDef{}, false
}
