package catalog

// RewardCard is the one-time presentation shown when a companion is unlocked.
type RewardCard struct {
	Title    string
	Subtitle string
	Message  string
	Blessing string
}

type CompanionDef struct {
	Type            CompanionType
	Name            string
	Emoji           string
	Personality     string
	Zone            Zone
	Description     string
	DefaultUnlocked bool
	Keywords        []string
	DialogLines     []string
	Reward          RewardCard
}

var companions = []CompanionDef{
	{
		Type:            CompanionCat,
		Name:            "小猫咪",
		Emoji:           "🐱",
		Personality:     "温柔、细腻、善于倾听",
		Zone:            ZoneSelfCare,
		Description:     "代表自我关怀和温柔对待自己",
		DefaultUnlocked: true,
		Keywords:        []string{"自我关怀", "温柔", "休息", "放松", "安静"},
		Reward: RewardCard{
			Title:    "The Gentle Guardian",
			Subtitle: "温柔守护者",
			Message:  "学会温柔地对待自己，是一切关怀的开始",
			Blessing: "愿你在忙碌中记得给自己一些温柔时光",
		},
	},
	{
		Type:        CompanionDeer,
		Name:        "小鹿",
		Emoji:       "🦌",
		Personality: "温柔、安静、优雅",
		Zone:        ZonePhysical,
		Description: "代表身体照顾、运动、饮食、睡眠",
		Keywords:    []string{"身体", "健康", "运动", "饮食", "睡眠", "喝水", "锻炼", "瑜伽", "散步", "伸展"},
		DialogLines: []string{"记得多喝水哦～", "今天的身体感觉怎么样？", "运动让我们更有活力！"},
		Reward: RewardCard{
			Title:    "The Vital Spirit",
			Subtitle: "生命活力",
			Message:  "身体是心灵的神殿，值得被精心照料",
			Blessing: "愿你的身体充满活力，每一天都精神焕发",
		},
	},
	{
		Type:        CompanionFox,
		Name:        "小狐狸",
		Emoji:       "🦊",
		Personality: "敏感、善解人意、聪慧",
		Zone:        ZoneEmotional,
		Description: "代表情绪表达、心理健康、压力管理",
		Keywords:    []string{"情绪", "心情", "压力", "焦虑", "难过", "开心", "冥想", "深呼吸", "倾诉", "心理"},
		DialogLines: []string{"今天感觉怎么样？", "所有情绪都值得被看见哦", "让我陪陪你吧"},
		Reward: RewardCard{
			Title:    "The Emotional Sage",
			Subtitle: "情感智者",
			Message:  "每一种情绪都是内心的声音，值得被倾听",
			Blessing: "愿你拥有感受情绪的勇气和处理情绪的智慧",
		},
	},
	{
		Type:        CompanionParrot,
		Name:        "鹦鹉",
		Emoji:       "🦜",
		Personality: "活泼、好奇、爱表达",
		Zone:        ZoneCreative,
		Description: "代表创作、学习、兴趣爱好",
		Keywords:    []string{"创作", "学习", "画画", "写作", "读书", "音乐", "技能", "兴趣", "创意", "艺术"},
		DialogLines: []string{"今天想创作什么？", "我学会了一句新话！", "让我们一起探索新事物吧！"},
		Reward: RewardCard{
			Title:    "The Creative Muse",
			Subtitle: "创意缪斯",
			Message:  "创造力是灵魂的语言，让想象力自由飞翔",
			Blessing: "愿你的创意如彩虹般绚烂，永远保持好奇心",
		},
	},
	{
		Type:        CompanionPenguin,
		Name:        "企鹅",
		Emoji:       "🐧",
		Personality: "友善、温暖、群居",
		Zone:        ZoneSocial,
		Description: "代表人际关系、社交互动",
		Keywords:    []string{"社交", "朋友", "家人", "聊天", "交流", "帮助", "感谢", "人际关系", "陪伴"},
		DialogLines: []string{"今天有想念的人吗？", "记得你不是一个人哦", "要不要联系一下朋友？"},
		Reward: RewardCard{
			Title:    "The Social Bond",
			Subtitle: "社交纽带",
			Message:  "真正的连接来自心与心的相遇",
			Blessing: "愿你被爱包围，也能将温暖传递给他人",
		},
	},
	{
		Type:        CompanionBeaver,
		Name:        "海狸",
		Emoji:       "🦫",
		Personality: "勤劳、有条理、踏实",
		Zone:        ZoneOrganization,
		Description: "代表空间整理、生活规划、环境优化",
		Keywords:    []string{"整理", "收纳", "规划", "清洁", "断舍离", "环境", "家务", "条理", "计划"},
		DialogLines: []string{"今天要整理什么呢？", "一点点来，不着急", "整洁的环境让心情更好！"},
		Reward: RewardCard{
			Title:    "The Organized Mind",
			Subtitle: "有序之心",
			Message:  "外在的整理是内在平静的开始",
			Blessing: "愿你的生活井然有序，内心安宁祥和",
		},
	},
	{
		Type:        CompanionSloth,
		Name:        "树懒",
		Emoji:       "🦥",
		Personality: "慵懒、治愈、佛系",
		Zone:        ZoneRest,
		Description: "代表休息、放松、什么都不做",
		Keywords:    []string{"休息", "放松", "睡觉", "发呆", "泡澡", "游戏", "娱乐", "慢节奏", "放假"},
		DialogLines: []string{"累了就休息吧～", "什么都不做也很棒哦", "慢慢来，不用着急"},
		Reward: RewardCard{
			Title:    "The Peaceful Rest",
			Subtitle: "宁静安息",
			Message:  "休息不是懒惰，而是为了更好地前行",
			Blessing: "愿你学会放慢脚步，享受当下的宁静",
		},
	},
}

// Companions returns the companion definitions in catalog order. The slice is a
// copy; the definitions share their keyword and line slices with the catalog and
// must not be modified.
func Companions() []CompanionDef {
	out := make([]CompanionDef, len(companions))
	copy(out, companions)
	return out
}

// Companion looks up a companion definition by type.
func Companion(t CompanionType) (CompanionDef, bool) {
	for _, c := range companions {
		if c.Type == t {
			return c, true
		}
	}
	return CompanionDef{}, false
}

// DefaultUnlocked lists the companions every account starts with.
func DefaultUnlocked() []CompanionType {
	var out []CompanionType
	for _, c := range companions {
		if c.DefaultUnlocked {
			out = append(out, c.Type)
		}
	}
	return out
}

// ZoneForCompanion returns the companion's garden zone, or DefaultZone for an
// unknown type.
func ZoneForCompanion(t CompanionType) Zone {
	if c, ok := Companion(t); ok {
		return c.Zone
	}
	return DefaultZone
}
